package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/http/validation"
)

var genderOptions = []string{"male", "female", "other"}

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wishara Admin - Edit User", PageTitle: "Edit User", CurrentPage: PageUserForm}
	}
	return PageMeta{Title: "Wishara Admin - New User", PageTitle: "New User", CurrentPage: PageUserForm}
}

func userListOptions(r *http.Request) model.UserListOptions {
	q := r.URL.Query()
	page, size := pageParams(q)
	return model.UserListOptions{
		Page:            page,
		Limit:           size,
		Search:          strings.TrimSpace(q.Get("search")),
		IsAdmin:         parseBoolFilter(q.Get("isAdmin")),
		Gender:          strings.ToLower(strings.TrimSpace(q.Get("gender"))),
		HasSubscription: parseBoolFilter(q.Get("hasSubscription")),
	}
}

// Users lists accounts with server-side filters and the statistics block.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	opts := userListOptions(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Users", PageTitle: "Users", CurrentPage: PageUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Filter"] = r.URL.Query()
			data["Genders"] = genderOptions
			var (
				result model.Page[model.AdminUser]
				stats  *model.UserStatistics
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				result, err = h.UserSvc.List(gctx, opts)
				return err
			})
			g.Go(func() error {
				s, err := h.UserSvc.Statistics(gctx)
				if err != nil {
					h.logger().WarnContext(ctx, "user statistics unavailable", "error", err)
					return nil
				}
				stats = s
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}
			data["Users"] = result.Items
			data["Total"] = result.Pagination.Total
			data["Stats"] = stats
			pagerData(r, data, result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	})
}

// UserView shows one account and its recent activity.
func (h *UIHandlers) UserView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - User", PageTitle: "User", CurrentPage: PageUserView},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				user        *model.AdminUser
				activity    *model.UserActivity
				activityErr error
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				user, err = h.UserSvc.GetByID(gctx, id)
				return err
			})
			g.Go(func() error {
				activity, activityErr = h.UserSvc.Activity(gctx, id)
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}
			data["UserRecord"] = user
			data["Activity"] = activity
			data["ActivityUnavailable"] = activityErr != nil
			return nil
		},
	})
}

// userFormValues is the user form's echo; the admin flag is a checkbox.
type userFormValues struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Phone     string
	Gender    string
	DOB       string
	IsAdmin   bool
}

func (v userFormValues) request() model.UserRequest {
	admin := v.IsAdmin
	return model.UserRequest{
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Username:  v.Username,
		Email:     v.Email,
		Password:  v.Password,
		Phone:     v.Phone,
		Gender:    v.Gender,
		DOB:       v.DOB,
		IsAdmin:   &admin,
	}
}

// UserNew renders the create form.
func (h *UIHandlers) UserNew(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, userFormMeta(FormModeCreate))
	data["Mode"] = string(FormModeCreate)
	data["Genders"] = genderOptions
	data["FormData"] = userFormValues{}
	h.renderDashboardPage(w, r, data)
}

// UserEdit renders the edit form prefilled from the API. The password is never echoed.
func (h *UIHandlers) UserEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: userFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = userFormValues{}
			data["ID"] = id
			data["Genders"] = genderOptions
			u, err := h.UserSvc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			data["FormData"] = userFormValues{
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Username:  u.Username,
				Email:     u.Email,
				Phone:     u.Phone,
				Gender:    u.Gender,
				DOB:       dateOnly(u.DOB),
				IsAdmin:   u.IsAdmin,
			}
			return nil
		},
	})
}

// dateOnly trims an RFC 3339 timestamp to what a date input accepts.
func dateOnly(v string) string {
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func userFormParser(mode FormMode) FormParser[userFormValues] {
	return func(r *http.Request) (userFormValues, map[string]string) {
		v := userFormValues{
			FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
			LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
			Username:  strings.TrimSpace(r.PostFormValue("username")),
			Email:     strings.TrimSpace(r.PostFormValue("email")),
			Password:  r.PostFormValue("password"),
			Phone:     strings.TrimSpace(r.PostFormValue("phone")),
			Gender:    strings.ToLower(strings.TrimSpace(r.PostFormValue("gender"))),
			DOB:       strings.TrimSpace(r.PostFormValue("dob")),
			IsAdmin:   checkbox(r, "isAdmin"),
		}
		fv := validation.New().
			Validate("firstName", v.FirstName, validation.Optional("First name", 100)).
			Validate("lastName", v.LastName, validation.Optional("Last name", 100)).
			Validate("email", v.Email, validation.Email("Email")).
			Validate("dob", v.DOB, validation.Date("Date of birth"))
		if v.Gender != "" {
			fv.Validate("gender", v.Gender, validation.OneOf("Gender", genderOptions...))
		}
		if mode == FormModeCreate {
			fv.Validate("firstName", v.FirstName, validation.Required("First name", 100)).
				Validate("username", v.Username, validation.Required("Username", 50)).
				Validate("email", v.Email, validation.Required("Email", 254))
			if len(v.Password) < 6 {
				fv.Add("password", "Password must be at least 6 characters.")
			}
		} else if v.Password != "" && len(v.Password) < 6 {
			fv.Add("password", "Password must be at least 6 characters.")
		}
		return v, fv.Errors()
	}
}

func (h *UIHandlers) handleUserForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	msg := "User created"
	if mode == FormModeEdit {
		msg = "User updated"
	}
	HandleForm(FormHandlerOpts[userFormValues]{
		W: w, R: r, Mode: mode, Handler: h,
		Parser: userFormParser(mode),
		Submit: func(ctx context.Context, id string, v userFormValues) error {
			if id == "" {
				_, err := h.UserSvc.Create(ctx, v.request())
				return err
			}
			_, err := h.UserSvc.Update(ctx, id, v.request())
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       userFormMeta(mode),
		ExtraData:      map[string]any{"Genders": genderOptions},
		SuccessURL:     "/users",
		SuccessMessage: msg,
		SuccessRender:  h.Users,
	})
}

// UserCreate handles POST /users.
func (h *UIHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	h.handleUserForm(w, r, FormModeCreate)
}

// UserUpdate handles POST /users/{id}.
func (h *UIHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleUserForm(w, r, FormModeEdit)
}

// UserDelete handles POST /users/{id}/delete.
func (h *UIHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete user.")
		return
	}
	h.succeeded(w, r, "/users", "User deleted", h.Users)
}

// UserToggleAdmin flips the admin flag and re-renders the user.
func (h *UIHandlers) UserToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := h.UserSvc.ToggleAdmin(r.Context(), id)
	if err != nil {
		h.actionFailed(w, r, err, "Unable to change admin status.")
		return
	}
	msg := "Admin access revoked"
	if u.IsAdmin {
		msg = "Admin access granted"
	}
	h.succeeded(w, r, "/users/"+id, msg, func(w http.ResponseWriter, r2 *http.Request) {
		r2.SetPathValue("id", id)
		h.UserView(w, r2)
	})
}

// UserBulk handles POST /users/bulk with action=delete or action=update.
// Updates carry only the fields the admin filled in.
func (h *UIHandlers) UserBulk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, apperrors.Validation("Invalid form submission."), "Invalid form submission.")
		return
	}
	ids := bulkIDs(r.PostForm["userIds"])
	if len(ids) == 0 {
		h.actionFailed(w, r, apperrors.ValidationField("userIds", "Select at least one user."), "Select at least one user.")
		return
	}

	var (
		res *model.BulkResult
		err error
	)
	switch r.PostFormValue("action") {
	case "delete":
		res, err = h.UserSvc.BulkDelete(r.Context(), model.BulkUserDelete{UserIDs: ids})
	case "update":
		update := model.UserRequest{Gender: strings.ToLower(strings.TrimSpace(r.PostFormValue("gender")))}
		update.IsAdmin = parseBoolFilter(r.PostFormValue("isAdmin"))
		res, err = h.UserSvc.BulkUpdate(r.Context(), model.BulkUserUpdate{UserIDs: ids, UpdateData: update})
	default:
		err = apperrors.ValidationField("action", "Unknown bulk action.")
	}
	if err != nil {
		h.actionFailed(w, r, err, "Bulk operation failed.")
		return
	}
	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("%d users affected", max(res.UpdatedCount, res.DeletedCount))
	}
	h.succeeded(w, r, "/users", msg, h.Users)
}

// bulkIDs drops blanks and duplicates, keeping order.
func bulkIDs(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
