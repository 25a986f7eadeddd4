// internal/app/features/groups/groups.go
package groups

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/timeouts"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	"github.com/membergate/membergate/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Groups     []models.Group
}

type formData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Group      models.Group
	IsNew      bool
	Error      string
}

type viewPageData struct {
	Title          string
	IsLoggedIn     bool
	Role           string
	UserName       string
	Group          models.Group
	ValidityDays   int
	InvitationLink string
}

// ServeGroupsList handles GET /admin/groups.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	list, err := h.Store.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/")
		return
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "group_list", listData{
		Title:      "Groups",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Groups:     list,
	})
}

// ServeNewGroup handles GET /admin/groups/new.
func (h *Handler) ServeNewGroup(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, models.Group{}, true, "")
}

// HandleCreateGroup handles POST /admin/groups.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	g, formErr := groupFromForm(r)
	if formErr != "" {
		h.renderForm(w, r, g, true, formErr)
		return
	}

	if _, err := h.Store.Create(ctx, g); err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			h.renderForm(w, r, g, true, "A group with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error creating group", err, "A database error occurred.", "/admin/groups")
		return
	}
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

// ServeEditGroup handles GET /admin/groups/{id}/edit.
func (h *Handler) ServeEditGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed group id", err, "That group does not exist.", "/admin/groups")
		return
	}
	g, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.", "/admin/groups")
		return
	}
	h.renderForm(w, r, g, false, "")
}

// HandleEditGroup handles POST /admin/groups/{id}/edit.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed group id", err, "That group does not exist.", "/admin/groups")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	g, formErr := groupFromForm(r)
	if formErr != "" {
		g.ID = id
		h.renderForm(w, r, g, false, formErr)
		return
	}

	err = h.Store.UpdateInfo(ctx, id, g.Name, g.Description, g.ValidityDays, g.RestrictedCategoryIDs)
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			g.ID = id
			h.renderForm(w, r, g, false, "A group with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error updating group", err, "A database error occurred.", "/admin/groups")
		return
	}
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

// HandleDeleteGroup handles POST /admin/groups/{id}/delete.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed group id", err, "That group does not exist.", "/admin/groups")
		return
	}
	if _, err := h.Store.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting group", err, "A database error occurred.", "/admin/groups")
		return
	}
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

// ServeGroupView handles GET /admin/groups/{id}/view, showing the
// group's configuration and its invitation link.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed group id", err, "That group does not exist.", "/admin/groups")
		return
	}
	g, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.", "/admin/groups")
		return
	}
	days, err := h.Store.ValidityDays(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group validity", err, "A database error occurred.", "/admin/groups")
		return
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "group_view", viewPageData{
		Title:          g.Name,
		IsLoggedIn:     signedIn,
		Role:           role,
		UserName:       name,
		Group:          g,
		ValidityDays:   days,
		InvitationLink: h.BaseURL + "/register?group_id=" + g.ID.Hex(),
	})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, g models.Group, isNew bool, formErr string) {
	title := "Edit Group"
	if isNew {
		title = "New Group"
	}
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "group_form", formData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Group:      g,
		IsNew:      isNew,
		Error:      formErr,
	})
}

func groupFromForm(r *http.Request) (models.Group, string) {
	g := models.Group{
		Name:                  strings.TrimSpace(r.FormValue("name")),
		Description:           strings.TrimSpace(r.FormValue("description")),
		RestrictedCategoryIDs: parseCategoryList(r.FormValue("restricted_category_ids")),
	}
	if g.Name == "" {
		return g, "Name is required."
	}

	if v := strings.TrimSpace(r.FormValue("validity_days")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			return g, "Validity must be a positive number of days."
		}
		g.ValidityDays = days
	}
	return g, ""
}

func parseCategoryList(s string) []int64 {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}
