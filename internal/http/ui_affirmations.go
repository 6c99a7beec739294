package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/http/validation"
)

func affirmationFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wishara Admin - Edit Affirmation", PageTitle: "Edit Affirmation", CurrentPage: PageAffirmationForm}
	}
	return PageMeta{Title: "Wishara Admin - New Affirmation", PageTitle: "New Affirmation", CurrentPage: PageAffirmationForm}
}

// Affirmations lists affirmations, optionally narrowed to one category.
func (h *UIHandlers) Affirmations(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(r.URL.Query().Get("category"))
	page, size := pageParams(r.URL.Query())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Affirmations", PageTitle: "Affirmations", CurrentPage: PageAffirmations},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["CategoryID"] = categoryID
			if cats, err := h.CategorySvc.List(ctx); err == nil {
				data["CategoryOptions"] = cats
			}
			list, err := h.AffirmationSvc.List(ctx, categoryID)
			if err != nil {
				return err
			}
			result := model.Paginate(list, page, size)
			data["Affirmations"] = result.Items
			data["Total"] = result.Pagination.Total
			pagerData(r, data, result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	})
}

func (h *UIHandlers) affirmationFormOptions(ctx context.Context) map[string]any {
	extra := map[string]any{}
	if cats, err := h.CategorySvc.List(ctx); err == nil {
		extra["CategoryOptions"] = cats
	} else {
		h.logger().WarnContext(ctx, "category options unavailable", "error", err)
	}
	return extra
}

// AffirmationNew renders the create form.
func (h *UIHandlers) AffirmationNew(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: affirmationFormMeta(FormModeCreate),
		Fetch: func(ctx context.Context, data map[string]any) error {
			for k, v := range h.affirmationFormOptions(ctx) {
				data[k] = v
			}
			data["Mode"] = string(FormModeCreate)
			data["FormData"] = model.AffirmationRequest{CategoryID: r.URL.Query().Get("category")}
			return nil
		},
	})
}

// AffirmationEdit renders the edit form prefilled from the API.
func (h *UIHandlers) AffirmationEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: affirmationFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			for k, v := range h.affirmationFormOptions(ctx) {
				data[k] = v
			}
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = model.AffirmationRequest{}
			data["ID"] = id
			a, err := h.AffirmationSvc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			data["FormData"] = model.AffirmationRequest{
				Content:    a.Content,
				CategoryID: a.CategoryID,
				IsPremium:  a.IsPremium,
				AudioURL:   a.AudioURL,
			}
			return nil
		},
	})
}

func parseAffirmationForm(r *http.Request) (model.AffirmationRequest, map[string]string) {
	req := model.AffirmationRequest{
		Content:    r.PostFormValue("content"),
		CategoryID: strings.TrimSpace(r.PostFormValue("categoryId")),
		IsPremium:  checkbox(r, "isPremium"),
		AudioURL:   strings.TrimSpace(r.PostFormValue("audioUrl")),
	}
	errs := validation.New().
		Validate("content", req.Content, validation.Required("Content", 1000)).
		Validate("categoryId", req.CategoryID, validation.Required("Category", 64)).
		Validate("audioUrl", req.AudioURL, validation.OptionalURL("Audio URL")).
		Errors()
	return req, errs
}

func (h *UIHandlers) handleAffirmationForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	msg := "Affirmation created"
	if mode == FormModeEdit {
		msg = "Affirmation updated"
	}
	HandleForm(FormHandlerOpts[model.AffirmationRequest]{
		W: w, R: r, Mode: mode, Handler: h,
		Parser: parseAffirmationForm,
		Submit: func(ctx context.Context, id string, req model.AffirmationRequest) error {
			if id == "" {
				_, err := h.AffirmationSvc.Create(ctx, req)
				return err
			}
			_, err := h.AffirmationSvc.Update(ctx, id, req)
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       affirmationFormMeta(mode),
		ExtraData:      h.affirmationFormOptions(r.Context()),
		SuccessURL:     "/affirmations",
		SuccessMessage: msg,
		SuccessRender:  h.Affirmations,
	})
}

// AffirmationCreate handles POST /affirmations.
func (h *UIHandlers) AffirmationCreate(w http.ResponseWriter, r *http.Request) {
	h.handleAffirmationForm(w, r, FormModeCreate)
}

// AffirmationUpdate handles POST /affirmations/{id}.
func (h *UIHandlers) AffirmationUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleAffirmationForm(w, r, FormModeEdit)
}

// AffirmationDelete handles POST /affirmations/{id}/delete.
func (h *UIHandlers) AffirmationDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AffirmationSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete affirmation.")
		return
	}
	h.succeeded(w, r, "/affirmations", "Affirmation deleted", h.Affirmations)
}
