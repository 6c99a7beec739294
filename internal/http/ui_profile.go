package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/http/validation"
	"github.com/wishara/admin-console/internal/service"
)

func profileMeta() PageMeta {
	return PageMeta{Title: "Wishara Admin - Profile", PageTitle: "My Profile", CurrentPage: PageProfile}
}

// Profile renders the signed-in admin's profile form.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: profileMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = model.ProfileRequest{}
			data["Genders"] = genderOptions
			u, err := h.UserSvc.Profile(ctx)
			if err != nil {
				return err
			}
			data["FormData"] = model.ProfileRequest{
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Username:  u.Username,
				Email:     u.Email,
				Phone:     u.Phone,
				Gender:    u.Gender,
				DOB:       dateOnly(u.DOB),
			}
			return nil
		},
	})
}

func parseProfileForm(r *http.Request) (model.ProfileRequest, map[string]string) {
	req := model.ProfileRequest{
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
		Gender:    strings.ToLower(strings.TrimSpace(r.PostFormValue("gender"))),
		DOB:       strings.TrimSpace(r.PostFormValue("dob")),
	}
	errs := validation.New().
		Validate("firstName", req.FirstName, validation.Optional("First name", 100)).
		Validate("lastName", req.LastName, validation.Optional("Last name", 100)).
		Validate("username", req.Username, validation.Required("Username", 50)).
		Validate("email", req.Email, validation.Required("Email", 254), validation.Email("Email")).
		Validate("dob", req.DOB, validation.Date("Date of birth")).
		Errors()
	return req, errs
}

// ProfileUpdate saves the profile and refreshes the user cached on the session
// so the header shows the new name without signing in again.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.ProfileRequest]{
		W: w, R: r, Mode: FormModeEdit, Handler: h,
		GetID:  func(*http.Request) string { return "me" },
		Parser: parseProfileForm,
		Submit: func(ctx context.Context, _ string, req model.ProfileRequest) error {
			u, err := h.UserSvc.UpdateProfile(ctx, req)
			if err != nil {
				return err
			}
			if sess := GetSessionFromContext(ctx); sess != nil {
				if err := h.Auth.UpdateSessionUser(ctx, sess.ID, service.SessionUser(*u)); err != nil {
					h.logger().WarnContext(ctx, "session user refresh failed", "error", err)
				}
			}
			return nil
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       profileMeta(),
		ExtraData:      map[string]any{"Genders": genderOptions},
		SuccessURL:     "/profile",
		SuccessMessage: "Profile updated",
		SuccessRender:  h.Profile,
	})
}
