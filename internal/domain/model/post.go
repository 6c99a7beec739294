package model

import (
	"strings"
	"time"
)

const maxPostContentLen = 5000

// PostType is the media kind of a post.
type PostType string

const (
	PostTypeImage PostType = "IMAGE"
	PostTypeVideo PostType = "VIDEO"
	PostTypeText  PostType = "TEXT"
)

// Valid reports whether the post type is supported.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeImage, PostTypeVideo, PostTypeText:
		return true
	default:
		return false
	}
}

// Privacy controls who can see a post.
type Privacy string

const (
	PrivacyPublic  Privacy = "PUBLIC"
	PrivacyPrivate Privacy = "PRIVATE"
)

// Valid reports whether the privacy value is supported.
func (p Privacy) Valid() bool { return p == PrivacyPublic || p == PrivacyPrivate }

// Author is the embedded author summary on posts and comments.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// Name returns "First Last", falling back to the username.
func (a *Author) Name() string {
	if a == nil {
		return ""
	}
	if n := strings.TrimSpace(a.FirstName + " " + a.LastName); n != "" {
		return n
	}
	return a.Username
}

// Tag is a free-form label on a post.
type Tag struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`
}

// Post is a user-authored feed item.
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"mediaUrl,omitempty"`
	PostType   PostType  `json:"postType"`
	CategoryID string    `json:"categoryId,omitempty"`
	Privacy    Privacy   `json:"privacy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Author     *Author   `json:"author,omitempty"`
	Category   *Category `json:"category,omitempty"`
	Tags       []Tag     `json:"tags,omitempty"`
}

// TagList joins the post's tags for display and form round-trips.
func (p Post) TagList() string {
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		out = append(out, t.Tag)
	}
	return strings.Join(out, ", ")
}

// PostRequest is the body for create and update.
type PostRequest struct {
	Content    string   `json:"content"`
	MediaURL   string   `json:"mediaUrl,omitempty"`
	PostType   PostType `json:"postType"`
	CategoryID string   `json:"categoryId,omitempty"`
	Privacy    Privacy  `json:"privacy"`
	Tags       []string `json:"tags,omitempty"`
}

// ParseTags splits a comma-separated tag input, dropping blanks and duplicates.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Validate validates and normalizes PostRequest.
func (r *PostRequest) Validate() error {
	content, err := requireText("content", "Content", r.Content, maxPostContentLen)
	if err != nil {
		return err
	}
	r.Content = content

	r.PostType = PostType(strings.ToUpper(strings.TrimSpace(string(r.PostType))))
	if r.PostType == "" {
		r.PostType = PostTypeText
	}
	if !r.PostType.Valid() {
		return validationField("postType", "Post type must be IMAGE, VIDEO or TEXT")
	}

	r.Privacy = Privacy(strings.ToUpper(strings.TrimSpace(string(r.Privacy))))
	if r.Privacy == "" {
		r.Privacy = PrivacyPublic
	}
	if !r.Privacy.Valid() {
		return validationField("privacy", "Privacy must be PUBLIC or PRIVATE")
	}

	media, err := optionalURL("mediaUrl", "Media URL", r.MediaURL)
	if err != nil {
		return err
	}
	r.MediaURL = media
	if r.PostType != PostTypeText && r.MediaURL == "" {
		return validationField("mediaUrl", "Media URL is required for image and video posts")
	}
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	return nil
}

// PostFilter is the client-side filter applied to the admin post list.
type PostFilter struct {
	Query      string
	PostType   PostType
	CategoryID string
}

// Match reports whether p passes every set criterion.
func (f PostFilter) Match(p Post) bool {
	if f.PostType != "" && p.PostType != f.PostType {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Author.Name()), q) {
		return true
	}
	return strings.Contains(strings.ToLower(p.TagList()), q)
}

// FilterPosts returns the posts matching f, preserving order.
func FilterPosts(posts []Post, f PostFilter) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Comment is a reply on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      *Author   `json:"user,omitempty"`
}

// LikeSummary is the like information shown on the post detail page.
type LikeSummary struct {
	Count int `json:"count"`
}
