package models

import "github.com/google/uuid"

// NewID returns a fresh opaque record id.
func NewID() string {
	return uuid.NewString()
}

// AllModels lists every model managed by schema migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Task{},
		&Team{},
		&TeamMember{},
	}
}
