package userstore

import (
	"context"

	"github.com/membergate/membergate/internal/app/system/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher adapts the user store to the session middleware. Disabled
// accounts resolve to no user, so the session dies with the account.
type Fetcher struct {
	Store *Store
}

// NewFetcher builds a Fetcher over the users collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{Store: New(db)}
}

func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	u, err := f.Store.GetByID(ctx, oid)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Status == "disabled" {
		return nil, nil
	}

	return &auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.Username,
		LoginID: u.Email,
		Role:    u.Role,
	}, nil
}
