package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"focusly-api/models"
	"focusly-api/pipeline"
	"focusly-api/pkg/events"
	"focusly-api/pkg/notify"
	"focusly-api/repository"
	"focusly-api/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagesHandler struct {
	pages    *repository.PagesRepository
	notifier notify.Notifier
}

func NewPagesHandler(pages *repository.PagesRepository) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// WithNotifier wires the push channel used to tell connected sessions their
// inbox may have changed.
func (h *PagesHandler) WithNotifier(n notify.Notifier) *PagesHandler {
	h.notifier = n
	return h
}

func (h *PagesHandler) inboxChanged(userID int, pageID string) {
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, events.NewInboxChanged(pageID))
	}
}

// GetPages returns the user's merged page collection: native pages first,
// each source ordered by createdAt descending. A store read failure degrades
// to an error code the client surfaces as a toast over an empty collection.
func (h *PagesHandler) GetPages(c *gin.Context) {
	userID := c.GetInt("userId")
	pages, err := h.pages.GetPagesByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load your pages"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(pages))
}

func (h *PagesHandler) CreatePage(c *gin.Context) {
	var req struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Page name must be non-empty"))
		return
	}
	if req.Kind != models.KindList && req.Kind != models.KindTable {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Kind must be list or table"))
		return
	}
	userID := c.GetInt("userId")
	page, err := h.pages.CreatePage(userID, req.Kind, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to create page"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(page))
}

// loadPage fetches a page owned by the caller or writes the error response.
func (h *PagesHandler) loadPage(c *gin.Context) *models.Page {
	userID := c.GetInt("userId")
	page, err := h.pages.GetPageByID(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load page"))
		return nil
	}
	if page == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Page not found"))
		return nil
	}
	return page
}

// loadNativePage additionally rejects template pages, which have no
// structure to edit.
func (h *PagesHandler) loadNativePage(c *gin.Context) *models.Page {
	page := h.loadPage(c)
	if page == nil {
		return nil
	}
	if page.Origin != models.OriginNative {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "Template pages have no editable structure"))
		return nil
	}
	return page
}

func (h *PagesHandler) GetPage(c *gin.Context) {
	page := h.loadPage(c)
	if page == nil {
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(page))
}

// UpdatePage is the save-active-page operation: a merge-write of the
// provided document fields. A provided structure passes through the
// invariant-repair dedup step first.
func (h *PagesHandler) UpdatePage(c *gin.Context) {
	page := h.loadPage(c)
	if page == nil {
		return
	}
	var req struct {
		Name      *string            `json:"name"`
		Structure *[]models.Property `json:"structure"`
		Data      json.RawMessage    `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	update := repository.PageUpdate{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Page name must be non-empty"))
			return
		}
		update.Name = &name
	}
	if page.Origin == models.OriginTemplate {
		if req.Structure != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "Template pages have no editable structure"))
			return
		}
		if req.Data != nil {
			update.Content = req.Data
		}
	} else {
		structure := page.Structure
		rows := page.Rows
		if req.Data != nil {
			if err := json.Unmarshal(req.Data, &rows); err != nil {
				c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Data must be an array of rows"))
				return
			}
		}
		if req.Structure != nil {
			structure = *req.Structure
		}
		if req.Structure != nil || req.Data != nil {
			structure, rows = models.DedupStructure(structure, rows)
			for i := range rows {
				rows[i] = models.PruneRowFields(rows[i], structure)
			}
			update.Structure = &structure
			update.Rows = &rows
		}
	}
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, update); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save page"))
		return
	}
	h.inboxChanged(userID, page.ID)
	saved, err := h.pages.GetPageByID(userID, page.ID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to reload page"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(saved))
}

// DeletePage removes the document. The confirmation dialog is a client
// contract; the API treats an authenticated DELETE as confirmed.
func (h *PagesHandler) DeletePage(c *gin.Context) {
	userID := c.GetInt("userId")
	err := h.pages.DeletePage(userID, c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Page not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to delete page"))
		return
	}
	h.inboxChanged(userID, "")
	c.Status(http.StatusNoContent)
}

// GetRows runs the filter/sort/search pipeline over the page's rows and
// returns the paginated result. The underlying data is never mutated; edits
// always target the unfiltered row set.
func (h *PagesHandler) GetRows(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	state := types.NewFilterState()
	state.Search = c.Query("search")
	state.Sort.Key = c.Query("sortKey")
	if dir := c.Query("sortDir"); dir == "desc" {
		state.Sort.Direction = "desc"
	}
	for key, values := range c.Request.URL.Query() {
		if name, ok := strings.CutPrefix(key, "filter."); ok && len(values) > 0 {
			state.Filters[name] = values[0]
		}
	}
	filtered := pipeline.Apply(page.Rows, page.Structure, state)
	p := types.ParsePaginationParams(c)
	total := len(filtered)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(filtered[start:end], total)))
}

// CreateRow prepends a new row with registry-default cell values.
func (h *PagesHandler) CreateRow(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	row := models.NewRow(page.Structure, uuid.NewString(), time.Now().UTC())
	rows := append([]models.Row{row}, page.Rows...)
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save row"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(row))
}

// UpdateRow applies cell edits. Fields outside the page structure are
// dropped at this write boundary; "advance" cycles an options-typed cell to
// its next value.
func (h *PagesHandler) UpdateRow(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	var req struct {
		Fields  map[string]interface{} `json:"fields"`
		Advance string                 `json:"advance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	rowID := c.Param("rowId")
	rows := make([]models.Row, len(page.Rows))
	copy(rows, page.Rows)
	idx := -1
	for i, row := range rows {
		if row.ID() == rowID {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Row not found"))
		return
	}
	row := rows[idx].Clone()
	for name, value := range req.Fields {
		prop := models.FindProperty(page.Structure, name)
		if prop == nil {
			continue
		}
		if err := models.ValidateCellValue(*prop, value); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
			return
		}
		row[name] = value
	}
	if req.Advance != "" {
		prop := models.FindProperty(page.Structure, req.Advance)
		if prop == nil || len(prop.Options) == 0 {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Property has no options to advance"))
			return
		}
		row[prop.Name] = models.CycleStatus(*prop, row.String(prop.Name))
	}
	rows[idx] = row
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save row"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(row))
}

func (h *PagesHandler) DeleteRow(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	rowID := c.Param("rowId")
	rows := make([]models.Row, 0, len(page.Rows))
	found := false
	for _, row := range page.Rows {
		if row.ID() == rowID {
			found = true
			continue
		}
		rows = append(rows, row)
	}
	if !found {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Row not found"))
		return
	}
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save page"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.Status(http.StatusNoContent)
}

// ToggleProperty adds a property of the requested type, or removes the
// existing one for singleton types.
func (h *PagesHandler) ToggleProperty(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "type is required"))
		return
	}
	structure, rows, added, err := models.ToggleProperty(page.Structure, page.Rows, req.Type)
	if errors.Is(err, models.ErrUnknownPropertyType) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Unknown property type"))
		return
	}
	if errors.Is(err, models.ErrFixedProperty) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Fixed properties cannot be removed"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Structure: &structure, Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save page"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"structure": structure, "added": added}))
}

// RenameProperty renames a column and migrates the field key on every row.
// A collision with an existing name is rejected before any write.
func (h *PagesHandler) RenameProperty(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "name is required"))
		return
	}
	oldName := c.Param("name")
	newName := strings.TrimSpace(req.Name)
	structure, rows, err := models.RenameProperty(page.Structure, page.Rows, oldName, newName)
	if errors.Is(err, models.ErrDuplicateName) {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeDuplicateName, "A property named "+newName+" already exists"))
		return
	}
	if errors.Is(err, models.ErrNameRequired) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Property name must be non-empty"))
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Property not found"))
		return
	}
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Structure: &structure, Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save page"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"structure": structure}))
}

// DeleteProperty removes a column and its field from every row. Fixed
// properties are guarded here even though the UI never offers them for
// deletion.
func (h *PagesHandler) DeleteProperty(c *gin.Context) {
	page := h.loadNativePage(c)
	if page == nil {
		return
	}
	structure, rows, err := models.DeleteProperty(page.Structure, page.Rows, c.Param("name"))
	if errors.Is(err, models.ErrFixedProperty) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Fixed properties cannot be deleted"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	userID := c.GetInt("userId")
	if err := h.pages.SavePage(userID, page.ID, repository.PageUpdate{Structure: &structure, Rows: &rows}); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to save page"))
		return
	}
	h.inboxChanged(userID, page.ID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"structure": structure}))
}
