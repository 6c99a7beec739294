package model

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// UserSubscription is the subscription summary embedded in admin user rows.
type UserSubscription struct {
	Plan      string    `json:"plan"`
	IsActive  bool      `json:"isActive"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// AdminUser is a platform account as seen by administrators.
type AdminUser struct {
	ID           string            `json:"id"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	Gender       string            `json:"gender,omitempty"`
	DOB          string            `json:"dob,omitempty"`
	IsAdmin      bool              `json:"isAdmin"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Subscription *UserSubscription `json:"subscription,omitempty"`
	Count        *struct {
		Posts       int `json:"posts"`
		Comments    int `json:"comments"`
		Communities int `json:"communities"`
	} `json:"_count,omitempty"`
}

// FullName returns "First Last", falling back to the username.
func (u AdminUser) FullName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}

// UserListOptions are the server-side filters of the admin user list.
type UserListOptions struct {
	Page            int
	Limit           int
	Search          string
	IsAdmin         *bool
	Gender          string
	HasSubscription *bool
}

// Query renders the options as API query parameters, omitting unset filters.
func (o UserListOptions) Query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		q.Set("search", s)
	}
	if o.IsAdmin != nil {
		q.Set("isAdmin", strconv.FormatBool(*o.IsAdmin))
	}
	if o.Gender != "" {
		q.Set("gender", o.Gender)
	}
	if o.HasSubscription != nil {
		q.Set("hasSubscription", strconv.FormatBool(*o.HasSubscription))
	}
	return q
}

// UserRequest is the body for admin create and update. Password is only sent when set.
type UserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Gender    string `json:"gender,omitempty"`
	DOB       string `json:"dob,omitempty"`
	IsAdmin   *bool  `json:"isAdmin,omitempty"`
}

// Validate validates a create (creating=true) or update request.
func (r *UserRequest) Validate(creating bool) error {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if creating {
		if r.FirstName == "" {
			return validationField("firstName", "First name is required")
		}
		if r.Username == "" {
			return validationField("username", "Username is required")
		}
		if r.Email == "" {
			return validationField("email", "Email is required")
		}
		if len(r.Password) < 6 {
			return validationField("password", "Password must be at least 6 characters")
		}
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return validationField("email", "Email address is invalid")
		}
	}
	if r.DOB != "" {
		if _, err := time.Parse(time.DateOnly, r.DOB); err != nil {
			return validationField("dob", "Date of birth must be YYYY-MM-DD")
		}
	}
	if !creating && r.Password != "" && len(r.Password) < 6 {
		return validationField("password", "Password must be at least 6 characters")
	}
	return nil
}

// BulkUserUpdate applies the same partial update to many users.
type BulkUserUpdate struct {
	UserIDs    []string    `json:"userIds"`
	UpdateData UserRequest `json:"updateData"`
}

// BulkUserDelete deletes many users at once.
type BulkUserDelete struct {
	UserIDs []string `json:"userIds"`
}

// BulkResult is what the bulk endpoints return.
type BulkResult struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount,omitempty"`
	DeletedCount int    `json:"deletedCount,omitempty"`
}

// UserStatistics is the aggregate block of the users page and the dashboard fallback.
type UserStatistics struct {
	TotalUsers               int            `json:"totalUsers"`
	AdminUsers               int            `json:"adminUsers"`
	RegularUsers             int            `json:"regularUsers"`
	UsersWithSubscription    int            `json:"usersWithSubscription"`
	UsersWithoutSubscription int            `json:"usersWithoutSubscription"`
	ActiveUsers              int            `json:"activeUsers"`
	InactiveUsers            int            `json:"inactiveUsers"`
	NewUsersThisMonth        int            `json:"newUsersThisMonth"`
	GenderDistribution       map[string]int `json:"genderDistribution"`
	SubscriptionStats        map[string]int `json:"subscriptionStats"`
}

// UserActivity is the recent activity of one user.
type UserActivity struct {
	Posts []struct {
		ID        string    `json:"id"`
		Content   string    `json:"content"`
		PostType  string    `json:"postType"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"posts"`
	Comments []struct {
		ID        string    `json:"id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"comments"`
	Affirmations []struct {
		ID          string    `json:"id"`
		SeenAt      time.Time `json:"seenAt"`
		IsCompleted bool      `json:"isCompleted"`
	} `json:"affirmations"`
}

// ProfileRequest is the body of the signed-in admin's profile update.
type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Gender    string `json:"gender,omitempty"`
	DOB       string `json:"dob,omitempty"`
}

// Validate validates and normalizes ProfileRequest. A date-only DOB is
// sent to the API as midnight UTC in RFC 3339.
func (r *ProfileRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Gender = strings.TrimSpace(r.Gender)
	username, err := requireText("username", "Username", r.Username, 50)
	if err != nil {
		return err
	}
	r.Username = username
	email, err := requireText("email", "Email", r.Email, 254)
	if err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationField("email", "Email address is invalid")
	}
	r.Email = email
	if dob := strings.TrimSpace(r.DOB); dob != "" {
		d, err := time.Parse(time.DateOnly, dob)
		if err != nil {
			return validationField("dob", "Date of birth must be YYYY-MM-DD")
		}
		r.DOB = d.UTC().Format(time.RFC3339)
	}
	return maxText("firstName", "First name", r.FirstName, 100)
}
