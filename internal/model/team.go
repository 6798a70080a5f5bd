package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// TeamStatus represents the review status of a team registration.
type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusApproved TeamStatus = "approved"
	TeamStatusRejected TeamStatus = "rejected"
)

// Member is a single roster entry. IGN is required; discord is optional.
type Member struct {
	IGN     string `json:"ign"`
	Discord string `json:"discord,omitempty"`
}

// Team represents a team registration owned by its leader. A rejected team
// is resubmittable: a new Register call from the same leader overwrites the
// row in place instead of inserting a fresh one.
type Team struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	TeamName         string     `json:"teamName" gorm:"size:255;not null"`
	LeaderID         uint       `json:"leaderId" gorm:"not null;index"`
	MembersJSON      string     `json:"-" gorm:"column:members_json;type:text;not null"`
	PaymentProofPath string     `json:"paymentProofPath,omitempty" gorm:"size:255"`
	Status           TeamStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason  string     `json:"rejectionReason,omitempty" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Leader User `json:"-" gorm:"foreignKey:LeaderID"`
}

// Live reports whether the team counts against the one-live-team-per-leader
// invariant. Rejected teams are not live and may be resubmitted.
func (t *Team) Live() bool {
	return t.Status != TeamStatusRejected
}

// Members deserializes the stored roster.
func (t *Team) Members() ([]Member, error) {
	var members []Member
	if err := json.Unmarshal([]byte(t.MembersJSON), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SetMembers serializes the roster into the stored column.
func (t *Team) SetMembers(members []Member) error {
	payload, err := json.Marshal(members)
	if err != nil {
		return err
	}
	t.MembersJSON = string(payload)
	return nil
}

// BeforeSave keeps the stored roster from ever being empty text.
func (t *Team) BeforeSave(tx *gorm.DB) error {
	if t.MembersJSON == "" {
		t.MembersJSON = "[]"
	}
	return nil
}
