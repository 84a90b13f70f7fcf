package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is either a group task (GroupID set, IsPersonal false) or a personal
// task (GroupID nil, IsPersonal true, assigned to its creator).
type Task struct {
	ID             string     `gorm:"type:varchar(36);primarykey" json:"id" bson:"_id"`
	CreatorID      string     `gorm:"type:varchar(36);not null;index" json:"creator_id" bson:"creator_id"`
	Name           string     `gorm:"type:varchar(255)" json:"name" bson:"name"`
	Description    string     `gorm:"type:text" json:"description" bson:"description"`
	Deadline       *time.Time `json:"deadline" bson:"deadline"`
	Status         string     `gorm:"type:varchar(50)" json:"status" bson:"status"`
	Category       string     `gorm:"type:varchar(100)" json:"category" bson:"category"`
	AssignedUserID *string    `gorm:"type:varchar(36);index" json:"assigned_user_id" bson:"assigned_user_id"`
	GroupID        *string    `gorm:"type:varchar(36);index" json:"group_id" bson:"group_id"`
	IsPersonal     bool       `gorm:"not null;index" json:"is_personal" bson:"is_personal"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssignedUserID != nil && *t.AssignedUserID == userID
}
