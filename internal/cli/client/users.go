package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// UserStatus is the moderation state of an account
type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusAccepted UserStatus = "ACCEPTED"
	StatusRejected UserStatus = "REJECTED"
	StatusDeleted  UserStatus = "DELETED"
)

// UserStatuses lists every status in display order
var UserStatuses = []UserStatus{StatusPending, StatusAccepted, StatusRejected, StatusDeleted}

// ParseUserStatus accepts a status name in any case
func ParseUserStatus(s string) (UserStatus, error) {
	candidate := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range UserStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (expected one of PENDING, ACCEPTED, REJECTED, DELETED)", s)
}

// User is the admin list view of an account
type User struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Gender    string     `json:"gender,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
}

// EffectiveStatus treats a missing status as PENDING
func (u *User) EffectiveStatus() UserStatus {
	if u.Status == "" {
		return StatusPending
	}
	return UserStatus(strings.ToUpper(string(u.Status)))
}

// UserDetail is the full admin view of an account
type UserDetail struct {
	User
	Address     *Address `json:"address,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// StatusUpdateRequest is the body of a moderation change
type StatusUpdateRequest struct {
	Status UserStatus `json:"status"`
}

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one account (admin only)
func (c *Client) GetUser(ctx context.Context, id string) (*UserDetail, error) {
	var user UserDetail
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserStatus moves an account to a new moderation status (admin only)
func (c *Client) UpdateUserStatus(ctx context.Context, id string, status UserStatus) error {
	if _, err := ParseUserStatus(string(status)); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, userPath(id)+"/status", nil, StatusUpdateRequest{Status: status}, nil)
}

func userPath(id string) string {
	return fmt.Sprintf("/admin/users/%s", url.PathEscape(id))
}
