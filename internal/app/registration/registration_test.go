package registration_test

import (
	"testing"
	"time"

	"github.com/membergate/membergate/internal/app/registration"
	"github.com/membergate/membergate/internal/app/store/approvals"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	userstore "github.com/membergate/membergate/internal/app/store/users"
	"github.com/membergate/membergate/internal/domain/models"
	"github.com/membergate/membergate/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newWorkflow(t *testing.T, db *mongo.Database) *registration.Workflow {
	t.Helper()
	return &registration.Workflow{
		Users:       userstore.New(db),
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Approvals:   approvals.New(db),
		Log:         zap.NewNop(),
		SiteName:    "Test Site",
		BaseURL:     "http://localhost:8080",
	}
}

func createGroup(t *testing.T, w *registration.Workflow, name string, validityDays int) models.Group {
	t.Helper()
	g, err := w.Groups.Create(testutil.TestContext(), models.Group{Name: name, ValidityDays: validityDays})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

func TestSubmit_CreatesPendingState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := newWorkflow(t, db)
	ctx := testutil.TestContext()
	g := createGroup(t, w, "Insiders", 90)

	res, verr, err := w.Submit(ctx, registration.SubmitInput{
		Username: "newmember",
		Email:    "new@example.com",
		GroupID:  g.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if res.ApprovalToken == "" {
		t.Error("expected an approval token")
	}

	u, err := w.Users.GetByID(ctx, res.UserID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.Status != "pending" {
		t.Errorf("user status = %q, want pending", u.Status)
	}

	m, err := w.Memberships.Get(ctx, res.UserID, g.ID)
	if err != nil {
		t.Fatalf("load membership: %v", err)
	}
	if m == nil || m.Status != models.MembershipPending {
		t.Errorf("membership = %+v, want pending record", m)
	}
}

func TestSubmit_ValidationOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := newWorkflow(t, db)
	ctx := testutil.TestContext()
	g := createGroup(t, w, "Insiders", 0)

	if _, verr, err := w.Submit(ctx, registration.SubmitInput{
		Username: "taken", Email: "taken@example.com", GroupID: g.ID.Hex(),
	}); err != nil || verr != nil {
		t.Fatalf("seed submit failed: %v / %v", err, verr)
	}

	tests := []struct {
		name string
		in   registration.SubmitInput
		want string
	}{
		{
			name: "blank fields win over everything",
			in:   registration.SubmitInput{Username: "", Email: "", GroupID: "junk"},
			want: registration.CodeEmptyFields,
		},
		{
			// A blank group is an empty-fields failure, not invalid_group.
			name: "blank group id is an empty field",
			in:   registration.SubmitInput{Username: "fresh", Email: "fresh@example.com", GroupID: ""},
			want: registration.CodeEmptyFields,
		},
		{
			// Username and email both collide; the username check runs first.
			name: "username collision reported before email collision",
			in:   registration.SubmitInput{Username: "taken", Email: "taken@example.com", GroupID: g.ID.Hex()},
			want: registration.CodeUsernameExists,
		},
		{
			name: "email collision reported before email shape",
			in:   registration.SubmitInput{Username: "fresh", Email: "taken@example.com", GroupID: "junk"},
			want: registration.CodeEmailExists,
		},
		{
			name: "bad email shape reported before bad group",
			in:   registration.SubmitInput{Username: "fresh", Email: "not-an-email", GroupID: "junk"},
			want: registration.CodeInvalidEmail,
		},
		{
			name: "malformed group id",
			in:   registration.SubmitInput{Username: "fresh", Email: "fresh@example.com", GroupID: "junk"},
			want: registration.CodeInvalidGroup,
		},
		{
			name: "unknown group id",
			in:   registration.SubmitInput{Username: "fresh", Email: "fresh@example.com", GroupID: primitive.NewObjectID().Hex()},
			want: registration.CodeInvalidGroup,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, verr, err := w.Submit(ctx, tc.in)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if verr == nil || verr.Code != tc.want {
				t.Errorf("validation error = %v, want code %s", verr, tc.want)
			}
		})
	}
}

func TestApprove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := newWorkflow(t, db)
	ctx := testutil.TestContext()
	g := createGroup(t, w, "Insiders", 30)

	res, verr, err := w.Submit(ctx, registration.SubmitInput{
		Username: "applicant",
		Email:    "applicant@example.com",
		GroupID:  g.ID.Hex(),
	})
	if err != nil || verr != nil {
		t.Fatalf("Submit: %v / %v", err, verr)
	}

	ok, err := w.Approve(ctx, res.UserID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !ok {
		t.Fatal("Approve returned false for pending request")
	}

	u, err := w.Users.GetByID(ctx, res.UserID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.Status != "active" {
		t.Errorf("user status = %q, want active", u.Status)
	}
	if u.RequestedGroupID != nil {
		t.Error("requested group still set after approval")
	}

	m, err := w.Memberships.Get(ctx, res.UserID, g.ID)
	if err != nil {
		t.Fatalf("load membership: %v", err)
	}
	if m == nil || m.Status != models.MembershipConfirmed {
		t.Fatalf("membership = %+v, want confirmed", m)
	}
	if m.JoinDate == nil || m.ExpirationDate == nil {
		t.Fatal("confirmed membership missing dates")
	}
	if got := m.ExpirationDate.Sub(*m.JoinDate); got != 30*24*time.Hour {
		t.Errorf("validity span = %v, want 30 days", got)
	}

	// A second approval is a no-op.
	ok, err = w.Approve(ctx, res.UserID)
	if err != nil {
		t.Fatalf("Approve (repeat): %v", err)
	}
	if ok {
		t.Error("repeat approval reported a change")
	}
}
