package model

import (
	"strings"
	"time"
)

const (
	maxCommunityNameLen        = 100
	maxCommunityDescriptionLen = 1000
)

// MemberRole is a member's role inside a community.
type MemberRole string

const (
	MemberRoleAdmin     MemberRole = "ADMIN"
	MemberRoleModerator MemberRole = "MODERATOR"
	MemberRoleMember    MemberRole = "MEMBER"
)

// ParseMemberRole normalizes a role string and reports whether it is supported.
func ParseMemberRole(v string) (MemberRole, bool) {
	switch r := MemberRole(strings.ToUpper(strings.TrimSpace(v))); r {
	case MemberRoleAdmin, MemberRoleModerator, MemberRoleMember:
		return r, true
	default:
		return "", false
	}
}

// Community is a user group with its own post feed.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPrivate   bool      `json:"isPrivate"`
	CreatorID   string    `json:"creatorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Creator     *Author   `json:"creator,omitempty"`
	Count       *struct {
		Members int `json:"members"`
		Posts   int `json:"posts"`
	} `json:"_count,omitempty"`
}

// MemberCount returns the member count when the API included it.
func (c Community) MemberCount() int {
	if c.Count == nil {
		return 0
	}
	return c.Count.Members
}

// CommunityRequest is the body for create and update.
type CommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

// Validate validates and normalizes CommunityRequest.
func (r *CommunityRequest) Validate() error {
	name, err := requireText("name", "Name", r.Name, maxCommunityNameLen)
	if err != nil {
		return err
	}
	r.Name = name
	r.Description = strings.TrimSpace(r.Description)
	return maxText("description", "Description", r.Description, maxCommunityDescriptionLen)
}

// CommunityMember is a membership row.
type CommunityMember struct {
	ID          string     `json:"id"`
	CommunityID string     `json:"communityId"`
	UserID      string     `json:"userId"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joinedAt"`
	User        *Author    `json:"user,omitempty"`
}

// CommunityPost is a post inside a community feed.
type CommunityPost struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"communityId"`
	AuthorID    string    `json:"authorId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      *Author   `json:"author,omitempty"`
}
