package models

import "time"

type TeamMember struct {
	TeamID   string    `gorm:"type:varchar(36);primarykey" json:"team_id"`
	UserID   string    `gorm:"type:varchar(36);primarykey;index" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
