package user

import "strings"

// User is the backend's user record as returned by /api/v1/users.
type User struct {
	ID                    int64  `json:"id"`
	Email                 string `json:"email"`
	FirstName             string `json:"first_name,omitempty"`
	LastName              string `json:"last_name,omitempty"`
	IsActive              bool   `json:"is_active"`
	IsSuperuser           bool   `json:"is_superuser"`
	GrantedAdditionalDays int    `json:"granted_additional_days"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type AdjustLeaveDaysRequest struct {
	GrantedAdditionalDays int `json:"granted_additional_days"`
}
