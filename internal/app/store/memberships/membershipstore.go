// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/membergate/membergate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store manages membership records, one per (user, group) pair. The
// membership document is the source of truth for access decisions; the
// group_ids mirror on the user document exists for display only and is
// kept in step here.
type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

var (
	ErrDuplicateMembership = errors.New("user already has a membership in this group")
	ErrNotFound            = errors.New("membership not found")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("memberships"),
		users: db.Collection("users"),
	}
}

// EnsureIndexes creates the unique (user_id, group_id) index that backs
// the one-record-per-pair invariant.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "group_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreatePending records a pending membership request. An existing expired
// record for the same pair is reused (reset to pending with its dates
// cleared); a pending or confirmed record makes the request a duplicate.
func (s *Store) CreatePending(ctx context.Context, userID, groupID primitive.ObjectID) (models.Membership, error) {
	now := time.Now().UTC()

	// Reclaim an expired record first so re-applying after expiry works.
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "group_id": groupID, "status": models.MembershipExpired},
		bson.M{
			"$set": bson.M{
				"status":     models.MembershipPending,
				"updated_at": now,
			},
			"$unset": bson.M{
				"join_date":       "",
				"expiration_date": "",
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var m models.Membership
	err := res.Decode(&m)
	if err == nil {
		return m, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Membership{}, err
	}

	m = models.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		GroupID:   groupID,
		Status:    models.MembershipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Approve promotes a pending membership to confirmed, stamping the join
// date and computing the expiration as now plus validityDays. It returns
// false when no pending record exists for the pair, which makes repeated
// approvals harmless.
func (s *Store) Approve(ctx context.Context, userID, groupID primitive.ObjectID, now time.Time, validityDays int) (bool, error) {
	if validityDays < 1 {
		validityDays = models.DefaultValidityDays
	}
	now = now.UTC()
	expiration := now.AddDate(0, 0, validityDays)

	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "group_id": groupID, "status": models.MembershipPending},
		bson.M{"$set": bson.M{
			"status":          models.MembershipConfirmed,
			"join_date":       now,
			"expiration_date": expiration,
			"updated_at":      now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Get returns the membership for the pair, or nil when none exists.
func (s *Store) Get(ctx context.Context, userID, groupID primitive.ObjectID) (*models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "group_id": groupID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ConfirmedGroupIDs returns the IDs of every group the user holds a
// confirmed membership in.
func (s *Store) ConfirmedGroupIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "status": models.MembershipConfirmed},
		options.Find().SetProjection(bson.M{"group_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.Membership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.GroupID)
	}
	return ids, cur.Err()
}

// ListByUser returns all of a user's membership records, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Membership
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPending returns all pending memberships, oldest first, for the
// admin approval queue.
func (s *Store) ListPending(ctx context.Context) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": models.MembershipPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Membership
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ExpireDue marks confirmed memberships whose expiration date falls
// strictly before the given day as expired and removes the matching
// group from the user's group_ids mirror. The comparison is by calendar
// day, so a membership expiring today keeps access through the day.
//
// Each record is expired with a conditional update, so a concurrent
// approval or a second sweep run sees a no-op rather than a conflict.
// Failures on individual records are logged and do not stop the sweep.
func (s *Store) ExpireDue(ctx context.Context, today time.Time, logger *zap.Logger) (int64, error) {
	dayStart := time.Date(today.UTC().Year(), today.UTC().Month(), today.UTC().Day(), 0, 0, 0, 0, time.UTC)

	cur, err := s.c.Find(ctx, bson.M{
		"status":          models.MembershipConfirmed,
		"expiration_date": bson.M{"$lt": dayStart},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var expired int64
	now := time.Now().UTC()
	for cur.Next(ctx) {
		var m models.Membership
		if err := cur.Decode(&m); err != nil {
			return expired, err
		}

		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": m.ID, "status": models.MembershipConfirmed},
			bson.M{"$set": bson.M{
				"status":     models.MembershipExpired,
				"updated_at": now,
			}},
		)
		if err != nil {
			logger.Error("expire membership failed",
				zap.String("membership_id", m.ID.Hex()),
				zap.Error(err))
			continue
		}
		if res.ModifiedCount == 0 {
			continue
		}

		if _, err := s.users.UpdateByID(ctx, m.UserID,
			bson.M{"$pull": bson.M{"group_ids": m.GroupID}}); err != nil {
			logger.Error("remove group from user failed",
				zap.String("user_id", m.UserID.Hex()),
				zap.String("group_id", m.GroupID.Hex()),
				zap.Error(err))
		}
		expired++
	}
	if err := cur.Err(); err != nil {
		return expired, err
	}
	return expired, nil
}
