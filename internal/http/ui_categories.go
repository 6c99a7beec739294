package httpx

import (
	"context"
	"net/http"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/http/validation"
	"github.com/wishara/admin-console/internal/service"
)

func categoryListMeta() PageMeta {
	return PageMeta{Title: "Wishara Admin - Categories", PageTitle: "Categories", CurrentPage: PageCategories}
}

func categoryFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wishara Admin - Edit Category", PageTitle: "Edit Category", CurrentPage: PageCategoryForm}
	}
	return PageMeta{Title: "Wishara Admin - New Category", PageTitle: "New Category", CurrentPage: PageCategoryForm}
}

// Categories lists every category.
func (h *UIHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	h.renderCategories(w, r, nil)
}

// renderCategories renders the list with created merged in, so the new row
// shows even when the list endpoint lags behind the write.
func (h *UIHandlers) renderCategories(w http.ResponseWriter, r *http.Request, created *model.Category) {
	h.Page(w, r, PageSpec{
		Meta: categoryListMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			list, err := h.CategorySvc.List(ctx)
			if err != nil {
				return err
			}
			if created != nil {
				list = service.MergeCategory(list, *created)
			}
			data["Categories"] = list
			return nil
		},
	})
}

// CategoryNew renders the create form.
func (h *UIHandlers) CategoryNew(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, categoryFormMeta(FormModeCreate))
	data["Mode"] = string(FormModeCreate)
	data["FormData"] = model.CategoryRequest{}
	h.renderDashboardPage(w, r, data)
}

// CategoryEdit renders the edit form prefilled from the API.
func (h *UIHandlers) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: categoryFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = model.CategoryRequest{}
			data["ID"] = id
			c, err := h.CategorySvc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			data["FormData"] = model.CategoryRequest{Name: c.Name, Description: c.Description, IsPremium: c.IsPremium}
			return nil
		},
	})
}

func parseCategoryForm(r *http.Request) (model.CategoryRequest, map[string]string) {
	req := model.CategoryRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		IsPremium:   checkbox(r, "isPremium"),
	}
	errs := validation.New().
		Validate("name", req.Name, validation.Required("Name", 100)).
		Validate("description", req.Description, validation.Optional("Description", 500)).
		Errors()
	return req, errs
}

// CategoryCreate handles POST /categories.
func (h *UIHandlers) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var created *model.Category
	HandleForm(FormHandlerOpts[model.CategoryRequest]{
		W: w, R: r, Mode: FormModeCreate, Handler: h,
		Parser: parseCategoryForm,
		Submit: func(ctx context.Context, _ string, req model.CategoryRequest) error {
			c, err := h.CategorySvc.Create(ctx, req)
			created = c
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       categoryFormMeta(FormModeCreate),
		SuccessURL:     "/categories",
		SuccessMessage: "Category created",
		SuccessRender: func(w http.ResponseWriter, r *http.Request) {
			h.renderCategories(w, r, created)
		},
	})
}

// CategoryUpdate handles POST /categories/{id}.
func (h *UIHandlers) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var updated *model.Category
	HandleForm(FormHandlerOpts[model.CategoryRequest]{
		W: w, R: r, Mode: FormModeEdit, Handler: h,
		Parser: parseCategoryForm,
		Submit: func(ctx context.Context, id string, req model.CategoryRequest) error {
			c, err := h.CategorySvc.Update(ctx, id, req)
			updated = c
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       categoryFormMeta(FormModeEdit),
		SuccessURL:     "/categories",
		SuccessMessage: "Category updated",
		SuccessRender: func(w http.ResponseWriter, r *http.Request) {
			h.renderCategories(w, r, updated)
		},
	})
}

// CategoryDelete handles POST /categories/{id}/delete.
func (h *UIHandlers) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategorySvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete category.")
		return
	}
	h.succeeded(w, r, "/categories", "Category deleted", h.Categories)
}
