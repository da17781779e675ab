// internal/app/store/reports/store.go

// Package reports persists generated report snapshots per user so a
// report survives navigation and re-login without re-querying the
// statistics service.
package reports

import (
	"context"
	"errors"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrimitra/agrimitra/internal/domain/models"
)

// ErrNotFound is returned when a snapshot does not exist or belongs
// to a different user.
var ErrNotFound = errors.New("report snapshot not found")

// MaxPerUser caps how many snapshots one user keeps; the oldest are
// pruned past this limit.
const MaxPerUser = 50

// Store manages report snapshots.
type Store struct {
	c        *mongo.Collection
	sanitize *bluemonday.Policy
}

// New creates a new reports Store.
func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("report_snapshots"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// EnsureIndexes creates necessary indexes for per-user listing.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Save inserts a snapshot for the user. Titles are user-supplied and
// sanitized before storage. Old snapshots past MaxPerUser are pruned.
func (s *Store) Save(ctx context.Context, snap models.ReportSnapshot) (primitive.ObjectID, error) {
	if snap.ID.IsZero() {
		snap.ID = primitive.NewObjectID()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	snap.Title = s.sanitize.Sanitize(snap.Title)

	if _, err := s.c.InsertOne(ctx, snap); err != nil {
		return primitive.NilObjectID, err
	}

	if err := s.prune(ctx, snap.UserID); err != nil {
		return snap.ID, err
	}
	return snap.ID, nil
}

// List returns the user's snapshots, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]models.ReportSnapshot, error) {
	// _id breaks created_at ties (BSON datetimes are millisecond
	// resolution).
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(MaxPerUser)

	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snaps []models.ReportSnapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Get returns one snapshot, scoped to the owning user.
func (s *Store) Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.ReportSnapshot, error) {
	var snap models.ReportSnapshot
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes one snapshot, scoped to the owning user.
func (s *Store) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all of the user's snapshots and returns how many were
// deleted.
func (s *Store) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// prune deletes the oldest snapshots beyond MaxPerUser.
func (s *Store) prune(ctx context.Context, userID string) error {
	count, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil || count <= MaxPerUser {
		return err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(count - MaxPerUser).
		SetProjection(bson.M{"_id": 1})

	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var stale []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return err
	}

	ids := make([]primitive.ObjectID, 0, len(stale))
	for _, doc := range stale {
		ids = append(ids, doc.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}
