package testutil

import (
	"testing"
	"time"

	"github.com/membergate/membergate/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateMember inserts an active member account whose group_ids mirror
// already contains the given group.
func CreateMember(t *testing.T, db *mongo.Database, userID, groupID primitive.ObjectID) models.User {
	t.Helper()

	now := time.Now().UTC()
	username := "member-" + userID.Hex()[:8]
	u := models.User{
		ID:         userID,
		Username:   username,
		UsernameCI: text.Fold(username),
		Email:      username + "@test.example",
		Role:       "member",
		Status:     "active",
		GroupIDs:   []primitive.ObjectID{groupID},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.Collection("users").InsertOne(TestContext(), u); err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return u
}

// CreateGroup inserts a group with the given restriction claims.
func CreateGroup(t *testing.T, db *mongo.Database, name string, categoryIDs []int64, validityDays int) models.Group {
	t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:                    primitive.NewObjectID(),
		Name:                  name,
		NameCI:                text.Fold(name),
		RestrictedCategoryIDs: categoryIDs,
		ValidityDays:          validityDays,
		Status:                "active",
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := db.Collection("groups").InsertOne(TestContext(), g); err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateConfirmedMembership inserts a confirmed membership with the
// given join and expiration dates.
func CreateConfirmedMembership(t *testing.T, db *mongo.Database, userID, groupID primitive.ObjectID, join, expires time.Time) models.Membership {
	t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		GroupID:        groupID,
		Status:         models.MembershipConfirmed,
		JoinDate:       &join,
		ExpirationDate: &expires,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := db.Collection("memberships").InsertOne(TestContext(), m); err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// UserHasGroup reports whether the user's group_ids mirror contains the group.
func UserHasGroup(t *testing.T, db *mongo.Database, userID, groupID primitive.ObjectID) bool {
	t.Helper()

	err := db.Collection("users").FindOne(TestContext(),
		bson.M{"_id": userID, "group_ids": groupID}).Err()
	if err == mongo.ErrNoDocuments {
		return false
	}
	if err != nil {
		t.Fatalf("failed to check user groups: %v", err)
	}
	return true
}

// SetUserStatus overwrites the user's status field directly.
func SetUserStatus(t *testing.T, db *mongo.Database, userID primitive.ObjectID, status string) {
	t.Helper()

	_, err := db.Collection("users").UpdateByID(TestContext(), userID,
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		t.Fatalf("failed to set user status: %v", err)
	}
}

// EnsureGroupIndexes creates the unique folded-name index on groups.
func EnsureGroupIndexes(t *testing.T, db *mongo.Database) {
	t.Helper()

	_, err := db.Collection("groups").Indexes().CreateOne(TestContext(), mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("failed to create group indexes: %v", err)
	}
}
