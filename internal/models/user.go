package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string     `gorm:"type:varchar(36);primarykey" json:"id" bson:"_id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" bson:"email"`
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" bson:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-" bson:"password_hash"`
	Role         int        `gorm:"not null" json:"role" bson:"role"`
	Avatar       string     `gorm:"type:varchar(512)" json:"avatar,omitempty" bson:"avatar,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at" bson:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate assigns a store id when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
