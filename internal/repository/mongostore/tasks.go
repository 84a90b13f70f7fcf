package mongostore

import (
	"context"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository stores tasks in the "tasks" collection
type TaskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository creates a new repository.TaskRepository
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, task)
	return err
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"group_id": groupID, "is_personal": false})
}

func (r *TaskRepository) ListPersonal(ctx context.Context, creatorID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"creator_id": creatorID, "is_personal": true})
}

func (r *TaskRepository) ListInvolving(ctx context.Context, userID string) ([]models.Task, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"creator_id": userID},
		bson.M{"assigned_user_id": userID},
	}})
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
