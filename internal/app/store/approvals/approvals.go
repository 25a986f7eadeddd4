// internal/app/store/approvals/approvals.go

// Package approvals manages the single-use tokens embedded in admin
// approval links. A token is bound to one user, expires on its own, and
// is consumed on first verification so a replayed link fails.
package approvals

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultExpiry is how long an approval link stays valid.
const DefaultExpiry = 7 * 24 * time.Hour

type Store struct {
	c *mongo.Collection
}

type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Token     string             `bson:"token"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

var ErrNotFound = errors.New("approval token not found or expired")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("approval_tokens")}
}

// EnsureIndexes creates the TTL index that reaps expired tokens.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// Create mints a fresh token for the user, replacing any outstanding one
// so only the most recently issued link works.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate approval token: %w", err)
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	_, err = s.c.InsertOne(ctx, Token{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(DefaultExpiry),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Verify consumes the token for the user. The delete and the match are
// one operation, so a link can only ever be used once.
func (s *Store) Verify(ctx context.Context, userID primitive.ObjectID, token string) error {
	res := s.c.FindOneAndDelete(ctx, bson.M{
		"user_id":    userID,
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
