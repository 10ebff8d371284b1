package handlers

import (
	"net/http"

	"focusly-api/repository"
	"focusly-api/types"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users *repository.UsersRepository
}

func NewProfileHandler(users *repository.UsersRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetUserByID(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load profile"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(user))
}

// UpdateProfile patches theme and language, preserving every other profile
// field.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Theme    *string `json:"theme"`
		Language *string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Theme != nil && *req.Theme != "dark" && *req.Theme != "light" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Theme must be dark or light"))
		return
	}
	if req.Language != nil && *req.Language == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Language must be non-empty"))
		return
	}
	userID := c.GetInt("userId")
	if err := h.users.UpdateProfile(userID, req.Theme, req.Language); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save profile"))
		return
	}
	user, err := h.users.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to reload profile"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(user))
}
