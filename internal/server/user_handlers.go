package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storefront-dev/storefront/internal/models"
)

// StatusUpdateRequest represents a moderation decision
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING ACCEPTED REJECTED DELETED"`
}

// @Summary List users
// @Description List all users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserSummary
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	summaries := make([]UserSummary, len(users))
	for i := range users {
		summaries[i] = userSummary(&users[i])
	}

	c.JSON(http.StatusOK, summaries)
}

// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserDetail
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	user, ok := s.findUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userDetail(user))
}

// @Summary Update user status
// @Description Accept, reject or delete an account (admin only, not self)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body StatusUpdateRequest true "New status"
// @Success 200 {object} UserDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id}/status [patch]
func (s *Server) updateUserStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	sessionData, _ := GetSessionData(c)

	// Prevent locking yourself out
	if c.Param("id") == sessionData.UserID {
		writeError(c, http.StatusBadRequest, "Cannot change your own status")
		return
	}

	user, ok := s.findUser(c)
	if !ok {
		return
	}

	if err := s.db.Model(user).Update("status", req.Status).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update user status")
		writeError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	user.Status = req.Status

	// Disabled accounts lose their refresh tokens
	if !user.CanLogin() {
		if err := s.db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to revoke refresh tokens")
		}
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("status", user.Status).
		Str("updated_by", sessionData.UserID).
		Msg("User status updated")

	c.JSON(http.StatusOK, userDetail(user))
}

func (s *Server) findUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := s.db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		writeError(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return &user, true
}
