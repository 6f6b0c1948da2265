package dao

import (
	"fmt"

	"gorm.io/gorm"
)

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintTeamsHackathonName + ` ON teams (hackathon_id, team_name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintTeamsHackathonCode + ` ON teams (hackathon_id, team_code)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintPendingJoinRequests + ` ON notifications (recipient_id, team_id, sender_id)
		WHERE type = 'join_request' AND status = 'pending'`,
}

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Hackathon{},
		&Team{},
		&Notification{},
		&Interest{},
	)
	if err != nil {
		return fmt.Errorf("db.AutoMigrate -> %w", err)
	}

	for _, stmt := range indexes {
		if err = db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("db.Exec(%q) -> %w", stmt, err)
		}
	}

	return nil
}
