package model

import "time"

const (
	maxCategoryNameLen        = 100
	maxCategoryDescriptionLen = 500
)

// CategoryCounts carries the relation counts the API includes with a category.
type CategoryCounts struct {
	Posts          int `json:"posts"`
	Affirmations   int `json:"affirmations"`
	CommunityPosts int `json:"communityPosts"`
}

// Category groups posts and affirmations.
type Category struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsPremium   bool            `json:"isPremium"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Count       *CategoryCounts `json:"_count,omitempty"`
}

// CategoryRequest is the body for both create and update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPremium   bool   `json:"isPremium"`
}

// Validate validates and normalizes CategoryRequest.
func (r *CategoryRequest) Validate() error {
	name, err := requireText("name", "Name", r.Name, maxCategoryNameLen)
	if err != nil {
		return err
	}
	r.Name = name
	if err := maxText("description", "Description", r.Description, maxCategoryDescriptionLen); err != nil {
		return err
	}
	return nil
}
