package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
)

type compositeIndex struct {
	model   interface{}
	table   string
	name    string
	columns string
}

// Composite indexes that struct tags cannot express. Single column indexes
// are declared on the models.
var compositeIndexes = []compositeIndex{
	// Group task listing
	{&models.Task{}, "tasks", "idx_tasks_group_personal", "group_id, is_personal"},
	// Personal task listing
	{&models.Task{}, "tasks", "idx_tasks_creator_personal", "creator_id, is_personal"},
	{&models.Task{}, "tasks", "idx_tasks_created_at", "created_at"},
}

// AddIndexes creates missing composite indexes on any supported dialect.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	for _, idx := range compositeIndexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{"index": idx.name, "table": idx.table}).Info("Created index")
	}

	return nil
}
