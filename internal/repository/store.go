package repository

import (
	"context"

	"gorm.io/gorm"
)

// NewGormStore wires the GORM repositories around one connection pool.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users: NewUserRepository(db),
		Tasks: NewTaskRepository(db),
		Teams: NewTeamRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
