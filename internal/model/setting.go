package model

// Setting is a key-value pair, one row per key.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value" gorm:"size:255;not null"`
}

// Setting keys in use.
const (
	SettingRegistrationOpen = "registration_open"
	SettingEntryFee         = "entry_fee"
)
