package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storefront-dev/storefront/internal/auth"
	"github.com/storefront-dev/storefront/internal/models"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AddressPayload is the postal address sent at registration
type AddressPayload struct {
	Street  string `json:"street" binding:"required"`
	Number  string `json:"number"`
	Zipcode string `json:"zipcode" binding:"required"`
	Country string `json:"country" binding:"required"`
	City    string `json:"city" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName   string         `json:"firstName" binding:"required"`
	LastName    string         `json:"lastName" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Address     AddressPayload `json:"address"`
	DateOfBirth string         `json:"dateOfBirth" binding:"required,datetime=2006-01-02"`
	Gender      string         `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
	Password    string         `json:"password" binding:"required,min=8"`
}

// LogoutRequest optionally names the refresh token to revoke
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *UserDetail `json:"user"`
}

// UserSummary is the list view of an account
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Gender    string `json:"gender,omitempty"`
	Status    string `json:"status"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	UserSummary
	Address     models.Address `json:"address"`
	DateOfBirth string         `json:"dateOfBirth,omitempty"`
	Roles       []string       `json:"roles"`
}

func userSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Gender:    u.Gender,
		Status:    u.Status,
	}
}

func userDetail(u *models.User) *UserDetail {
	return &UserDetail{
		UserSummary: userSummary(u),
		Address:     u.Address,
		DateOfBirth: u.DateOfBirth,
		Roles:       u.Roles,
	}
}

// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		writeError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.CanLogin() {
		s.logger.Info().Str("user_id", user.ID).Str("status", user.Status).Msg("Login refused")
		writeError(c, http.StatusForbidden, "Account is "+strings.ToLower(user.Status))
		return
	}

	accessToken, err := s.tokens.GenerateToken(user.ID, user.Email, user.Roles)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		writeError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate refresh token")
		writeError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	if err := s.db.Create(&models.RefreshToken{UserID: user.ID, Token: refreshToken}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to store refresh token")
		writeError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userDetail(&user),
	})
}

// @Summary Register
// @Description Create a USER account awaiting moderation
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register request"
// @Success 201 {object} UserDetail
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count users")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message:     "Email already registered",
			FieldErrors: map[string]string{"email": "is already registered"},
		})
		return
	}

	// Hash the provided password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: passwordHash,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		Address: models.Address{
			Street:  req.Address.Street,
			Number:  req.Address.Number,
			Zipcode: req.Address.Zipcode,
			Country: req.Address.Country,
			City:    req.Address.City,
		},
		Status: models.StatusPending,
		Roles:  []string{models.RoleUser},
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")

	c.JSON(http.StatusCreated, userDetail(user))
}

// @Summary Logout
// @Description Revoke refresh tokens of the current user
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param request body LogoutRequest false "Refresh token to revoke; all when empty"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var req LogoutRequest
	// An empty or missing body revokes every refresh token of the caller
	_ = c.ShouldBindJSON(&req)

	query := s.db.Where("user_id = ?", sessionData.UserID)
	if req.RefreshToken != "" {
		query = query.Where("token = ?", req.RefreshToken)
	}

	result := query.Delete(&models.RefreshToken{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to revoke refresh tokens")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().
		Str("user_id", sessionData.UserID).
		Int64("revoked", result.RowsAffected).
		Msg("User logged out")

	c.Status(http.StatusNoContent)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
