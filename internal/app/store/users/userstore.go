// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/app/system/normalize"
	"github.com/membergate/membergate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrNotFound          = errors.New("user not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique username and email indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UsernameExists reports whether any account already uses the username,
// compared case-insensitively.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EmailRegistered reports whether any account already uses the email.
func (s *Store) EmailRegistered(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new pending account requesting membership in the
// given group. The unique indexes catch races that slipped past the
// caller's existence checks.
func (s *Store) Create(ctx context.Context, username, email string, requestedGroupID primitive.ObjectID) (models.User, error) {
	now := time.Now().UTC()
	u := models.User{
		ID:               primitive.NewObjectID(),
		Username:         normalize.Username(username),
		UsernameCI:       text.Fold(username),
		Email:            normalize.Email(email),
		Role:             "member",
		Status:           "pending",
		RequestedGroupID: &requestedGroupID,
		GroupIDs:         []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			if dupOnIndex(err, "email_1") {
				return models.User{}, ErrDuplicateEmail
			}
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// dupOnIndex reports whether a duplicate-key error hit the named unique
// index. The server embeds the index name in the write error message
// ("... index: email_1 dup key: ...").
func dupOnIndex(err error, index string) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, "index: "+index) {
				return true
			}
		}
	}
	return false
}

// ConsumeRequest finalizes an approved registration on the user record:
// the requested group moves into the display mirror, the pending marker
// is cleared, and the account becomes active.
func (s *Store) ConsumeRequest(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"group_ids": groupID},
		"$set": bson.M{
			"status":     "active",
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"requested_group_id": ""},
	})
	return err
}

// RevokeGroup removes a group from the user's display mirror.
func (s *Store) RevokeGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"group_ids": groupID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// List returns all users ordered by folded username.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
