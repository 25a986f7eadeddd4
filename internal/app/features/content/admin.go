// internal/app/features/content/admin.go
package content

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/htmlsanitize"
	"github.com/membergate/membergate/internal/app/system/timeouts"
	"github.com/membergate/membergate/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adminListData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Items      []models.Content
}

type adminFormData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Item       models.Content
	Groups     []models.Group
	IsNew      bool
	Error      string
}

// List handles GET /admin/content.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	items, err := h.Store.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing content", err, "A database error occurred.", "/")
		return
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "content_list", adminListData{
		Title:      "Content",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Items:      items,
	})
}

// ShowNew handles GET /admin/content/new.
func (h *Handler) ShowNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, models.Content{}, true, "")
}

// Create handles POST /admin/content/new.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/content")
		return
	}

	item, formErr := h.contentFromForm(r)
	if formErr != "" {
		h.renderForm(w, r, item, true, formErr)
		return
	}

	if _, err := h.Store.Create(ctx, item); err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating content", err, "A database error occurred.", "/admin/content")
		return
	}
	http.Redirect(w, r, "/admin/content", http.StatusSeeOther)
}

// ShowEdit handles GET /admin/content/{id}/edit.
func (h *Handler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed content id", err, "That content item does not exist.", "/admin/content")
		return
	}
	item, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading content", err, "A database error occurred.", "/admin/content")
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}
	h.renderForm(w, r, *item, false, "")
}

// Update handles POST /admin/content/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed content id", err, "That content item does not exist.", "/admin/content")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/content")
		return
	}

	item, formErr := h.contentFromForm(r)
	if formErr != "" {
		item.ID = id
		h.renderForm(w, r, item, false, formErr)
		return
	}

	if err := h.Store.Update(ctx, id, item.Title, item.Body, item.CategoryIDs, item.Drip); err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating content", err, "A database error occurred.", "/admin/content")
		return
	}
	http.Redirect(w, r, "/admin/content", http.StatusSeeOther)
}

// Delete handles POST /admin/content/{id}/delete.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed content id", err, "That content item does not exist.", "/admin/content")
		return
	}
	if _, err := h.Store.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "database error deleting content", err, "A database error occurred.", "/admin/content")
		return
	}
	http.Redirect(w, r, "/admin/content", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, item models.Content, isNew bool, formErr string) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/admin/content")
		return
	}

	title := "Edit Content"
	if isNew {
		title = "New Content"
	}
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "content_form", adminFormData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Item:       item,
		Groups:     groups,
		IsNew:      isNew,
		Error:      formErr,
	})
}

// contentFromForm builds a content item from the admin form. The body
// is sanitized here so everything stored is safe to render raw.
func (h *Handler) contentFromForm(r *http.Request) (models.Content, string) {
	item := models.Content{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Body:        htmlsanitize.Sanitize(r.FormValue("body")),
		CategoryIDs: parseCategoryList(r.FormValue("category_ids")),
	}
	if item.Title == "" {
		return item, "Title is required."
	}

	dripGroup := strings.TrimSpace(r.FormValue("drip_group_id"))
	dripDelay := strings.TrimSpace(r.FormValue("drip_delay_days"))
	if dripGroup != "" {
		gid, err := primitive.ObjectIDFromHex(dripGroup)
		if err != nil {
			return item, "Select a valid drip group."
		}
		delay := 0
		if dripDelay != "" {
			delay, err = strconv.Atoi(dripDelay)
			if err != nil || delay < 0 {
				return item, "Drip delay must be zero or a positive number of days."
			}
		}
		item.Drip = &models.DripRule{GroupID: gid, DelayDays: delay}
	}
	return item, ""
}

// parseCategoryList parses a comma-separated list of category IDs,
// silently dropping entries that are not integers.
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
