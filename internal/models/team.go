package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id" bson:"_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" bson:"name"`
	Description string    `gorm:"type:text" json:"description" bson:"description"`
	CreatedBy   string    `gorm:"type:varchar(36);not null;index" json:"created_by" bson:"created_by"`
	Tags        []string  `gorm:"type:text;serializer:json" json:"tags" bson:"tags"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`

	// MemberIDs is the membership set. The SQL backend persists it through
	// Members rows, the document backend stores it inline.
	MemberIDs []string     `gorm:"-" json:"-" bson:"members"`
	Members   []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-" bson:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// HasMember reports whether userID belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
