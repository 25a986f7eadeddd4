// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/membergate/membergate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the group registry: group configuration plus a cached union of
// every category restricted by any group. The cache is owned here and
// invalidated explicitly by every write; it is never time-based.
type Store struct {
	c *mongo.Collection

	mu              sync.Mutex
	restrictedCache map[int64]struct{}
	cacheValid      bool
}

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// EnsureIndexes creates the unique folded-name index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Exists reports whether a group with the given ID exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.Status == "" {
		g.Status = "active"
	}
	if g.ValidityDays < 0 {
		g.ValidityDays = 0
	}
	g.RestrictedCategoryIDs = dedupeCategories(g.RestrictedCategoryIDs)
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	s.invalidate()
	return g, nil
}

// UpdateInfo updates a group's name, description, validity period, and
// restricted category set. An empty name leaves the name unchanged.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string, validityDays int, categoryIDs []int64) error {
	set := bson.M{
		"updated_at":              time.Now().UTC(),
		"description":             desc,
		"restricted_category_ids": dedupeCategories(categoryIDs),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if validityDays > 0 {
		set["validity_days"] = validityDays
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	s.invalidate()
	return nil
}

// Delete removes a group by ID. Membership records referencing the group
// are left to expire on their own; deletion does not cascade.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		s.invalidate()
	}
	return res.DeletedCount, nil
}

// List returns all groups ordered by folded name.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// RestrictedCategories returns the group's configured restricted category
// set; empty when none configured or the group does not exist.
func (s *Store) RestrictedCategories(ctx context.Context, id primitive.ObjectID) ([]int64, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"restricted_category_ids": 1})).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g.RestrictedCategoryIDs, nil
}

// ValidityDays returns the group's membership validity period in days,
// defaulting to models.DefaultValidityDays when unset.
func (s *Store) ValidityDays(ctx context.Context, id primitive.ObjectID) (int, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"validity_days": 1})).Decode(&g)
	if err != nil {
		return 0, err
	}
	if g.ValidityDays < 1 {
		return models.DefaultValidityDays, nil
	}
	return g.ValidityDays, nil
}

// AllRestrictedCategories returns the union of restricted categories
// across all groups. The result is memoized until the next write to any
// group; callers must not mutate the returned map.
func (s *Store) AllRestrictedCategories(ctx context.Context) (map[int64]struct{}, error) {
	s.mu.Lock()
	if s.cacheValid {
		cached := s.restrictedCache
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"restricted_category_ids": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	union := make(map[int64]struct{})
	for cur.Next(ctx) {
		var g models.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		for _, cat := range g.RestrictedCategoryIDs {
			union[cat] = struct{}{}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.restrictedCache = union
	s.cacheValid = true
	s.mu.Unlock()
	return union, nil
}

func (s *Store) invalidate() {
	s.mu.Lock()
	s.restrictedCache = nil
	s.cacheValid = false
	s.mu.Unlock()
}

func dedupeCategories(ids []int64) []int64 {
	if len(ids) == 0 {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
