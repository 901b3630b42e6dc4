package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Address is a postal address attached to a user profile
type Address struct {
	Street  string `json:"street" validate:"required"`
	Number  string `json:"number,omitempty"`
	Zipcode string `json:"zipcode" validate:"required"`
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName       string  `json:"firstName" validate:"required"`
	LastName        string  `json:"lastName" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Address         Address `json:"address"`
	DateOfBirth     string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02,minage=13"`
	Gender          string  `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// AuthResponse is returned by the auth endpoints. Registration may answer
// with only a profile, in which case the tokens are empty.
type AuthResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         *UserDetail `json:"user,omitempty"`
}

// HasTokens reports whether the response carries an access token
func (r *AuthResponse) HasTokens() bool {
	return r != nil && r.AccessToken != ""
}

// Login authenticates the user and returns the token pair
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response did not include an access token")
	}
	return &resp, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &raw); err != nil {
		return nil, err
	}
	return parseRegisterResponse(raw)
}

func parseRegisterResponse(raw json.RawMessage) (*AuthResponse, error) {
	if len(raw) == 0 {
		return &AuthResponse{}, nil
	}

	var resp AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.AccessToken != "" || resp.User != nil {
		return &resp, nil
	}

	// Bare profile
	var profile UserDetail
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if profile.ID != "" || profile.Email != "" {
		resp.User = &profile
	}
	return &resp, nil
}

// Logout invalidates the current session server side
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil)
}
