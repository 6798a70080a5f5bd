package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// EnsureLiveTeamIndex enforces the one-live-team-per-leader invariant at
// the storage layer. MySQL has no partial indexes, so a stored generated
// column maps rejected rows to NULL (NULLs never collide in a unique
// index) and every live row to 1.
func EnsureLiveTeamIndex(db *gorm.DB) {
	// Both statements fail harmlessly when the column/index already exists.
	db.Exec("ALTER TABLE teams ADD COLUMN live_flag TINYINT AS (IF(status = 'rejected', NULL, 1)) STORED")
	db.Exec("CREATE UNIQUE INDEX idx_teams_leader_live ON teams (leader_id, live_flag)")
}
