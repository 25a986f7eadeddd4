// internal/app/features/members/members.go
package members

import (
	"net/http"

	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/timeouts"
	"github.com/membergate/membergate/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listRow struct {
	User      models.User
	Pending   bool
	GroupName string
}

type listData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Rows       []listRow
	Approved   bool
}

type viewData struct {
	Title        string
	IsLoggedIn   bool
	Role         string
	UserName     string
	User         models.User
	Memberships  []membershipRow
	ApprovalLink string
}

type membershipRow struct {
	GroupName  string
	Membership models.Membership
}

// ServeMembersList handles GET /admin/members, listing every account
// with its status. ?approved=true shows the confirmation banner after
// an approval redirect.
func (h *Handler) ServeMembersList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing users", err, "A database error occurred.", "/")
		return
	}

	groupNames, err := h.groupNames(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/")
		return
	}

	rows := make([]listRow, 0, len(users))
	for _, u := range users {
		row := listRow{User: u, Pending: u.RequestedGroupID != nil}
		if u.RequestedGroupID != nil {
			row.GroupName = groupNames[*u.RequestedGroupID]
		}
		rows = append(rows, row)
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "member_list", listData{
		Title:      "Members",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Rows:       rows,
		Approved:   r.URL.Query().Get("approved") == "true",
	})
}

// ServeMemberView handles GET /admin/members/{id}/view. For a pending
// account it mints a fresh approval token, so the link on screen is
// always the one that will work; any previously issued link dies here.
func (h *Handler) ServeMemberView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed user id", err, "That member does not exist.", "/admin/members")
		return
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "A database error occurred.", "/admin/members")
		return
	}

	groupNames, err := h.groupNames(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/admin/members")
		return
	}

	list, err := h.Memberships.ListByUser(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing memberships", err, "A database error occurred.", "/admin/members")
		return
	}
	rows := make([]membershipRow, 0, len(list))
	for _, m := range list {
		rows = append(rows, membershipRow{GroupName: groupNames[m.GroupID], Membership: m})
	}

	approvalLink := ""
	if u.RequestedGroupID != nil {
		token, err := h.Workflow.Approvals.Create(ctx, u.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "approval token mint failed", err, "A database error occurred.", "/admin/members")
			return
		}
		approvalLink = h.Workflow.ApprovalLink(u.ID, token)
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "member_view", viewData{
		Title:        u.Username,
		IsLoggedIn:   signedIn,
		Role:         role,
		UserName:     name,
		User:         u,
		Memberships:  rows,
		ApprovalLink: approvalLink,
	})
}

func (h *Handler) groupNames(r *http.Request) (map[primitive.ObjectID]string, error) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}
