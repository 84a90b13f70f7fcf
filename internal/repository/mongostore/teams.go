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

// TeamRepository stores teams, membership included, in the "teams" collection
type TeamRepository struct {
	coll *mongo.Collection
}

// NewTeamRepository creates a new repository.TeamRepository
func NewTeamRepository(db *mongo.Database) repository.TeamRepository {
	return &TeamRepository{coll: db.Collection(teamsCollection)}
}

func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = models.NewID()
	}
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, team)
	return err
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (r *TeamRepository) ListByMember(ctx context.Context, userID string) ([]models.Team, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"members": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = time.Now().UTC()

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": team.ID}, bson.M{"$set": bson.M{
		"name":        team.Name,
		"description": team.Description,
		"tags":        team.Tags,
		"members":     team.MemberIDs,
		"updated_at":  team.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
