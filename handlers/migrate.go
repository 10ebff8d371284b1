package handlers

import (
	"encoding/json"
	"net/http"

	"focusly-api/models"
	"focusly-api/repository"
	"focusly-api/types"

	"github.com/gin-gonic/gin"
)

// MigrateHandler implements the one-time import of pages a pre-account
// client cached locally. The persisted localStorageMigrated flag gates the
// import so it runs at most once per account.
type MigrateHandler struct {
	pages *repository.PagesRepository
	users *repository.UsersRepository
}

func NewMigrateHandler(pages *repository.PagesRepository, users *repository.UsersRepository) *MigrateHandler {
	return &MigrateHandler{pages: pages, users: users}
}

func (h *MigrateHandler) MigrateLocal(c *gin.Context) {
	userID := c.GetInt("userId")
	user, err := h.users.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load profile"))
		return
	}
	if user.LocalStorageMigrated {
		c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"migrated": false, "reason": "already migrated"}))
		return
	}
	var req struct {
		Pages []struct {
			ID           string          `json:"id"`
			Name         string          `json:"name"`
			TemplateName string          `json:"templateName"`
			TemplateFile string          `json:"templateFile"`
			Data         json.RawMessage `json:"data"`
		} `json:"pages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	pages := make([]models.Page, 0, len(req.Pages))
	for _, p := range req.Pages {
		if p.Name == "" {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Each page needs a name"))
			return
		}
		// Template kinds outside the notification catalog are stored as-is;
		// they render through their own view and emit no notifications.
		pages = append(pages, models.Page{
			ID:           p.ID,
			Name:         p.Name,
			TemplateName: p.TemplateName,
			TemplateFile: p.TemplateFile,
			Content:      p.Data,
		})
	}
	// Pages and the flag flip land in a single transaction, so a failed
	// import leaves the account unmigrated and retryable.
	if err := h.pages.ImportTemplatePages(userID, pages); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to migrate local data"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"migrated": true, "pages": len(pages)}))
}
