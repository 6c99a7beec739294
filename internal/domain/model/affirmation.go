package model

import (
	"strings"
	"time"
)

const maxAffirmationContentLen = 1000

// Affirmation is a short statement users read daily, optionally with audio.
type Affirmation struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CategoryID string    `json:"categoryId"`
	IsPremium  bool      `json:"isPremium"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Category   *Category `json:"category,omitempty"`
}

// CategoryName returns the embedded category name or "Uncategorized".
func (a Affirmation) CategoryName() string {
	if a.Category != nil && strings.TrimSpace(a.Category.Name) != "" {
		return a.Category.Name
	}
	return "Uncategorized"
}

// AffirmationRequest is the body for create and update.
type AffirmationRequest struct {
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	IsPremium  bool   `json:"isPremium"`
	AudioURL   string `json:"audioUrl,omitempty"`
}

// Validate validates and normalizes AffirmationRequest.
func (r *AffirmationRequest) Validate() error {
	content, err := requireText("content", "Content", r.Content, maxAffirmationContentLen)
	if err != nil {
		return err
	}
	r.Content = content
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	if r.CategoryID == "" {
		return validationField("categoryId", "Category is required")
	}
	audio, err := optionalURL("audioUrl", "Audio URL", r.AudioURL)
	if err != nil {
		return err
	}
	r.AudioURL = audio
	return nil
}

// AffirmationHistory is one user's interaction with an affirmation.
type AffirmationHistory struct {
	ID            string       `json:"id"`
	AffirmationID string       `json:"affirmationId"`
	UserID        string       `json:"userId"`
	Completed     bool         `json:"completed"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	Affirmation   *Affirmation `json:"affirmation,omitempty"`
}
