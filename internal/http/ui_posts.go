package httpx

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/http/validation"
)

func postFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wishara Admin - Edit Post", PageTitle: "Edit Post", CurrentPage: PagePostForm}
	}
	return PageMeta{Title: "Wishara Admin - New Post", PageTitle: "New Post", CurrentPage: PagePostForm}
}

func postFilterFromQuery(r *http.Request) model.PostFilter {
	q := r.URL.Query()
	return model.PostFilter{
		Query:      strings.TrimSpace(q.Get("q")),
		PostType:   model.PostType(strings.ToUpper(strings.TrimSpace(q.Get("type")))),
		CategoryID: strings.TrimSpace(q.Get("category")),
	}
}

// Posts lists posts with text, type and category filters.
func (h *UIHandlers) Posts(w http.ResponseWriter, r *http.Request) {
	filter := postFilterFromQuery(r)
	page, size := pageParams(r.URL.Query())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Posts", PageTitle: "Posts", CurrentPage: PagePosts},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Filter"] = filter
			data["PostTypes"] = []model.PostType{model.PostTypeText, model.PostTypeImage, model.PostTypeVideo}
			// Category names only feed the filter select.
			if cats, err := h.CategorySvc.List(ctx); err == nil {
				data["CategoryOptions"] = cats
			}
			result, err := h.PostSvc.List(ctx, filter, page, size)
			if err != nil {
				return err
			}
			data["Posts"] = result.Items
			data["Total"] = result.Pagination.Total
			pagerData(r, data, result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	})
}

// PostView shows one post with its comments and like count.
func (h *UIHandlers) PostView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Post", PageTitle: "Post", CurrentPage: PagePostView},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				post                  *model.Post
				comments              []model.Comment
				likes                 model.LikeSummary
				commentsErr, likesErr error
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				post, err = h.PostSvc.GetByID(gctx, id)
				return err
			})
			g.Go(func() error {
				comments, commentsErr = h.PostSvc.Comments(gctx, id)
				return nil
			})
			g.Go(func() error {
				likes, likesErr = h.PostSvc.Likes(gctx, id)
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}
			data["CommentsUnavailable"] = commentsErr != nil
			data["LikesUnavailable"] = likesErr != nil
			data["Post"] = post
			data["Comments"] = comments
			data["Likes"] = likes
			return nil
		},
	})
}

func (h *UIHandlers) postFormOptions(ctx context.Context) map[string]any {
	extra := map[string]any{
		"PostTypes": []model.PostType{model.PostTypeText, model.PostTypeImage, model.PostTypeVideo},
		"Privacies": []model.Privacy{model.PrivacyPublic, model.PrivacyPrivate},
	}
	if cats, err := h.CategorySvc.List(ctx); err == nil {
		extra["CategoryOptions"] = cats
	} else {
		h.logger().WarnContext(ctx, "category options unavailable", "error", err)
	}
	return extra
}

// PostNew renders the create form.
func (h *UIHandlers) PostNew(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: postFormMeta(FormModeCreate),
		Fetch: func(ctx context.Context, data map[string]any) error {
			for k, v := range h.postFormOptions(ctx) {
				data[k] = v
			}
			data["Mode"] = string(FormModeCreate)
			data["FormData"] = postFormValues{PostType: string(model.PostTypeText), Privacy: string(model.PrivacyPublic)}
			return nil
		},
	})
}

// PostEdit renders the edit form prefilled from the API.
func (h *UIHandlers) PostEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: postFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			for k, v := range h.postFormOptions(ctx) {
				data[k] = v
			}
			data["Mode"] = string(FormModeEdit)
			data["FormData"] = postFormValues{}
			data["ID"] = id
			p, err := h.PostSvc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			data["FormData"] = postFormValues{
				Content:    p.Content,
				MediaURL:   p.MediaURL,
				PostType:   string(p.PostType),
				CategoryID: p.CategoryID,
				Privacy:    string(p.Privacy),
				Tags:       p.TagList(),
			}
			return nil
		},
	})
}

// postFormValues is what the post form echoes back; tags stay comma-separated.
type postFormValues struct {
	Content    string
	MediaURL   string
	PostType   string
	CategoryID string
	Privacy    string
	Tags       string
}

func (v postFormValues) request() model.PostRequest {
	return model.PostRequest{
		Content:    v.Content,
		MediaURL:   v.MediaURL,
		PostType:   model.PostType(v.PostType),
		CategoryID: v.CategoryID,
		Privacy:    model.Privacy(v.Privacy),
		Tags:       model.ParseTags(v.Tags),
	}
}

func parsePostForm(r *http.Request) (postFormValues, map[string]string) {
	v := postFormValues{
		Content:    r.PostFormValue("content"),
		MediaURL:   strings.TrimSpace(r.PostFormValue("mediaUrl")),
		PostType:   strings.ToUpper(strings.TrimSpace(r.PostFormValue("postType"))),
		CategoryID: r.PostFormValue("categoryId"),
		Privacy:    strings.ToUpper(strings.TrimSpace(r.PostFormValue("privacy"))),
		Tags:       r.PostFormValue("tags"),
	}
	fv := validation.New().
		Validate("content", v.Content, validation.Required("Content", 5000)).
		Validate("postType", v.PostType, validation.OneOf("Post type", "TEXT", "IMAGE", "VIDEO")).
		Validate("privacy", v.Privacy, validation.OneOf("Privacy", "PUBLIC", "PRIVATE")).
		Validate("mediaUrl", v.MediaURL, validation.OptionalURL("Media URL"))
	if v.PostType != string(model.PostTypeText) && v.MediaURL == "" {
		fv.Add("mediaUrl", "Media URL is required for image and video posts.")
	}
	return v, fv.Errors()
}

func (h *UIHandlers) handlePostForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	msg := "Post created"
	if mode == FormModeEdit {
		msg = "Post updated"
	}
	HandleForm(FormHandlerOpts[postFormValues]{
		W: w, R: r, Mode: mode, Handler: h,
		Parser: parsePostForm,
		Submit: func(ctx context.Context, id string, v postFormValues) error {
			if id == "" {
				_, err := h.PostSvc.Create(ctx, v.request())
				return err
			}
			_, err := h.PostSvc.Update(ctx, id, v.request())
			return err
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       postFormMeta(mode),
		ExtraData:      h.postFormOptions(r.Context()),
		SuccessURL:     "/posts",
		SuccessMessage: msg,
		SuccessRender:  h.Posts,
	})
}

// PostCreate handles POST /posts.
func (h *UIHandlers) PostCreate(w http.ResponseWriter, r *http.Request) {
	h.handlePostForm(w, r, FormModeCreate)
}

// PostUpdate handles POST /posts/{id}.
func (h *UIHandlers) PostUpdate(w http.ResponseWriter, r *http.Request) {
	h.handlePostForm(w, r, FormModeEdit)
}

// PostDelete removes a post through the admin endpoint.
func (h *UIHandlers) PostDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.PostSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete post.")
		return
	}
	h.succeeded(w, r, "/posts", "Post deleted", h.Posts)
}

// CommentDelete removes a comment and re-renders the post.
func (h *UIHandlers) CommentDelete(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if err := h.PostSvc.DeleteComment(r.Context(), r.PathValue("commentID")); err != nil {
		h.actionFailed(w, r, err, "Unable to delete comment.")
		return
	}
	h.succeeded(w, r, "/posts/"+postID, "Comment deleted", func(w http.ResponseWriter, r2 *http.Request) {
		r2.SetPathValue("id", postID)
		h.PostView(w, r2)
	})
}
