// internal/app/store/contents/contentstore.go
package contentstore

import (
	"context"
	"sort"
	"time"

	"github.com/membergate/membergate/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages content items: the protected pages and posts, their
// category assignments, and optional drip schedules.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contents")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var c models.Content
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Create(ctx context.Context, c models.Content) (models.Content, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	c.CategoryIDs = normalizeCategories(c.CategoryIDs)
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Content{}, err
	}
	return c, nil
}

// Update replaces the content's title, body, categories, and drip rule.
// A nil drip clears any existing schedule.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, body string, categoryIDs []int64, drip *models.DripRule) error {
	update := bson.M{
		"$set": bson.M{
			"title":        title,
			"title_ci":     text.Fold(title),
			"body":         body,
			"category_ids": normalizeCategories(categoryIDs),
			"updated_at":   time.Now().UTC(),
		},
	}
	if drip != nil {
		update["$set"].(bson.M)["drip"] = drip
	} else {
		update["$unset"] = bson.M{"drip": ""}
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all content items ordered by folded title.
func (s *Store) List(ctx context.Context) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Content
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func normalizeCategories(ids []int64) []int64 {
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
