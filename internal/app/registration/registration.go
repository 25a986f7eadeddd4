// internal/app/registration/registration.go

// Package registration implements the invitation-driven signup flow:
// a visitor submits the form behind a group invitation link, an account
// and a pending membership are created, and an administrator later
// approves the request to activate both.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/app/store/approvals"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	userstore "github.com/membergate/membergate/internal/app/store/users"
	"github.com/membergate/membergate/internal/app/system/mailer"

	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Validation error codes, checked in a fixed order. Only the first
// failing check is reported.
const (
	CodeEmptyFields    = "empty_fields"
	CodeUsernameExists = "username_exists"
	CodeEmailExists    = "email_exists"
	CodeInvalidEmail   = "invalid_email"
	CodeInvalidGroup   = "invalid_group"
)

// ValidationError reports why a submission was rejected.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	return "registration rejected: " + e.Code
}

type SubmitInput struct {
	Username string
	Email    string
	GroupID  string
}

type SubmitResult struct {
	UserID        primitive.ObjectID
	GroupID       primitive.ObjectID
	ApprovalToken string
}

// Workflow wires the stores that registration touches.
type Workflow struct {
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Approvals   *approvals.Store
	Mailer      *mailer.Mailer
	Client      *mongo.Client
	Log         *zap.Logger
	SiteName    string
	BaseURL     string
}

// Submit validates and records a registration request. Validation
// failures come back as a *ValidationError; the error return is for
// infrastructure problems only.
//
// Checks run in a fixed order (blank fields, username taken, email
// taken, email shape, group exists) and stop at the first failure.
func (w *Workflow) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, *ValidationError, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	groupHex := strings.TrimSpace(in.GroupID)

	if username == "" || email == "" || groupHex == "" {
		return nil, &ValidationError{Code: CodeEmptyFields}, nil
	}

	taken, err := w.Users.UsernameExists(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, &ValidationError{Code: CodeUsernameExists}, nil
	}

	registered, err := w.Users.EmailRegistered(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if registered {
		return nil, &ValidationError{Code: CodeEmailExists}, nil
	}

	if !validate.SimpleEmailValid(email) {
		return nil, &ValidationError{Code: CodeInvalidEmail}, nil
	}

	groupID, err := primitive.ObjectIDFromHex(groupHex)
	if err != nil {
		return nil, &ValidationError{Code: CodeInvalidGroup}, nil
	}
	exists, err := w.Groups.Exists(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("check group: %w", err)
	}
	if !exists {
		return nil, &ValidationError{Code: CodeInvalidGroup}, nil
	}

	user, err := w.Users.Create(ctx, username, email, groupID)
	if err != nil {
		// A racing duplicate insert surfaces as the matching code.
		switch err {
		case userstore.ErrDuplicateUsername:
			return nil, &ValidationError{Code: CodeUsernameExists}, nil
		case userstore.ErrDuplicateEmail:
			return nil, &ValidationError{Code: CodeEmailExists}, nil
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := w.Memberships.CreatePending(ctx, user.ID, groupID); err != nil {
		return nil, nil, fmt.Errorf("create pending membership: %w", err)
	}

	token, err := w.Approvals.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create approval token: %w", err)
	}

	w.sendAccountCreatedMail(user.ID, username, email, groupID)

	return &SubmitResult{UserID: user.ID, GroupID: groupID, ApprovalToken: token}, nil, nil
}

// sendAccountCreatedMail notifies the new member in the background.
// Mail failures are logged, never surfaced; the registration already
// succeeded.
func (w *Workflow) sendAccountCreatedMail(userID primitive.ObjectID, username, email string, groupID primitive.ObjectID) {
	if w.Mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		groupName := ""
		if g, err := w.Groups.GetByID(ctx, groupID); err == nil {
			groupName = g.Name
		}

		msg := mailer.BuildAccountCreatedEmail(mailer.AccountCreatedEmailData{
			SiteName:  w.SiteName,
			Username:  username,
			GroupName: groupName,
			LoginURL:  w.BaseURL + "/login",
		})
		msg.To = email
		if err := w.Mailer.Send(msg); err != nil {
			w.Log.Error("account created email failed",
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
		}
	}()
}

// ApprovalLink builds the admin approval URL for a pending user.
func (w *Workflow) ApprovalLink(userID primitive.ObjectID, token string) string {
	return fmt.Sprintf("%s/admin/approve?user_id=%s&token=%s", w.BaseURL, userID.Hex(), token)
}
