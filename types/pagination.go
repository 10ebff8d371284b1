package types

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// AllowedPageSizes restricts pageSize to a small set of known values.
var AllowedPageSizes = []int{10, 20, 50, 100}

// PaginatedResponse wraps a data slice with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PageSize   int `json:"pageSize"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// PaginationHelper normalizes page/pageSize query values.
type PaginationHelper struct {
	Page     int
	PageSize int
	Offset   int
}

// NewPaginationHelper clamps page to >= 1 and pageSize to the nearest allowed
// size at or below the requested one (default 20).
func NewPaginationHelper(page, pageSize int) *PaginationHelper {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	allowed := false
	for _, size := range AllowedPageSizes {
		if pageSize == size {
			allowed = true
			break
		}
	}
	if !allowed {
		chosen := AllowedPageSizes[0]
		for _, size := range AllowedPageSizes {
			if size <= pageSize {
				chosen = size
			}
		}
		pageSize = chosen
	}
	return &PaginationHelper{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// ParsePaginationParams extracts page/pageSize from the request query.
func ParsePaginationParams(c *gin.Context) *PaginationHelper {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return NewPaginationHelper(page, pageSize)
}

// BuildResponse assembles the standard paginated envelope body.
func (p *PaginationHelper) BuildResponse(data interface{}, total int) PaginatedResponse {
	resp := PaginatedResponse{Data: data}
	resp.Pagination.Page = p.Page
	resp.Pagination.PageSize = p.PageSize
	resp.Pagination.Total = total
	resp.Pagination.TotalPages = (total + p.PageSize - 1) / p.PageSize
	return resp
}
