package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/http/validation"
)

func communityFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wishara Admin - Edit Community", PageTitle: "Edit Community", CurrentPage: PageCommunityForm}
	}
	return PageMeta{Title: "Wishara Admin - New Community", PageTitle: "New Community", CurrentPage: PageCommunityForm}
}

// Communities lists communities.
func (h *UIHandlers) Communities(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r.URL.Query())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Communities", PageTitle: "Communities", CurrentPage: PageCommunities},
		Fetch: func(ctx context.Context, data map[string]any) error {
			list, err := h.CommunitySvc.List(ctx)
			if err != nil {
				return err
			}
			result := model.Paginate(list, page, size)
			data["Communities"] = result.Items
			data["Total"] = result.Pagination.Total
			pagerData(r, data, result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	})
}

// CommunityView shows a community with its members and feed.
func (h *UIHandlers) CommunityView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Community", PageTitle: "Community", CurrentPage: PageCommunityView},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				community            *model.Community
				members              []model.CommunityMember
				posts                []model.CommunityPost
				membersErr, postsErr error
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				community, err = h.CommunitySvc.GetByID(gctx, id)
				return err
			})
			g.Go(func() error {
				members, membersErr = h.CommunitySvc.Members(gctx, id)
				return nil
			})
			g.Go(func() error {
				posts, postsErr = h.CommunitySvc.Posts(gctx, id)
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}
			data["Community"] = community
			data["Members"] = members
			data["Posts"] = posts
			data["MembersUnavailable"] = membersErr != nil
			data["PostsUnavailable"] = postsErr != nil
			data["Roles"] = []model.MemberRole{model.MemberRoleAdmin, model.MemberRoleModerator, model.MemberRoleMember}
			return nil
		},
	})
}

// CommunityNew renders the create form.
func (h *UIHandlers) CommunityNew(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, communityFormMeta(FormModeCreate))
	data["Mode"] = string(FormModeCreate)
	data["FormData"] = model.CommunityRequest{}
	h.renderDashboardPage(w, r, data)
}

// CommunityEdit renders the edit form prefilled from the API.
func (h *UIHandlers) CommunityEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: communityFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = model.CommunityRequest{}
			data["ID"] = id
			c, err := h.CommunitySvc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			data["FormData"] = model.CommunityRequest{Name: c.Name, Description: c.Description, IsPrivate: c.IsPrivate}
			return nil
		},
	})
}

func parseCommunityForm(r *http.Request) (model.CommunityRequest, map[string]string) {
	req := model.CommunityRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		IsPrivate:   checkbox(r, "isPrivate"),
	}
	errs := validation.New().
		Validate("name", req.Name, validation.Required("Name", 100)).
		Validate("description", req.Description, validation.Optional("Description", 1000)).
		Errors()
	return req, errs
}

func (h *UIHandlers) handleCommunityForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	msg := "Community created"
	if mode == FormModeEdit {
		msg = "Community updated"
	}
	HandleForm(FormHandlerOpts[model.CommunityRequest]{
		W: w, R: r, Mode: mode, Handler: h,
		Parser: parseCommunityForm,
		Submit: func(ctx context.Context, id string, req model.CommunityRequest) error {
			if id == "" {
				_, err := h.CommunitySvc.Create(ctx, req)
				return err
			}
			_, err := h.CommunitySvc.Update(ctx, id, req)
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       communityFormMeta(mode),
		SuccessURL:     "/communities",
		SuccessMessage: msg,
		SuccessRender:  h.Communities,
	})
}

// CommunityCreate handles POST /communities.
func (h *UIHandlers) CommunityCreate(w http.ResponseWriter, r *http.Request) {
	h.handleCommunityForm(w, r, FormModeCreate)
}

// CommunityUpdate handles POST /communities/{id}.
func (h *UIHandlers) CommunityUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleCommunityForm(w, r, FormModeEdit)
}

// CommunityDelete handles POST /communities/{id}/delete.
func (h *UIHandlers) CommunityDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CommunitySvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete community.")
		return
	}
	h.succeeded(w, r, "/communities", "Community deleted", h.Communities)
}

// communityAction runs a mutation scoped to one community and re-renders its view.
func (h *UIHandlers) communityAction(w http.ResponseWriter, r *http.Request, okMsg, failMsg string, fn func(ctx context.Context, id string) error) {
	id := r.PathValue("id")
	if err := fn(r.Context(), id); err != nil {
		h.actionFailed(w, r, err, failMsg)
		return
	}
	h.succeeded(w, r, "/communities/"+id, okMsg, func(w http.ResponseWriter, r2 *http.Request) {
		r2.SetPathValue("id", id)
		h.CommunityView(w, r2)
	})
}

// CommunityMemberRemove handles POST /communities/{id}/members/{userID}/delete.
func (h *UIHandlers) CommunityMemberRemove(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	h.communityAction(w, r, "Member removed", "Unable to remove member.", func(ctx context.Context, id string) error {
		return h.CommunitySvc.RemoveMember(ctx, id, userID)
	})
}

// CommunityMemberRole handles POST /communities/{id}/members/{userID}/role.
func (h *UIHandlers) CommunityMemberRole(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	role, ok := model.ParseMemberRole(r.PostFormValue("role"))
	if !ok {
		h.actionFailed(w, r, apperrors.ValidationField("role", "Role must be ADMIN, MODERATOR or MEMBER"), "Invalid role.")
		return
	}
	h.communityAction(w, r, "Role updated", "Unable to update role.", func(ctx context.Context, id string) error {
		return h.CommunitySvc.UpdateMemberRole(ctx, id, userID, string(role))
	})
}

// CommunityPostDelete handles POST /communities/{id}/posts/{postID}/delete.
func (h *UIHandlers) CommunityPostDelete(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postID")
	h.communityAction(w, r, "Post deleted", "Unable to delete post.", func(ctx context.Context, _ string) error {
		return h.CommunitySvc.DeletePost(ctx, postID)
	})
}
