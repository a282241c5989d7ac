package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginatedResponse wraps one page of results together with the total
// eligible count and markers to the neighboring pages. Next and Previous
// are absent at the boundaries.
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

// GetPaginationParams extracts the requested page from the request. The page
// size is fixed; a missing or malformed page parameter selects the first page.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.FirstPage)))
	if err != nil || page < constants.FirstPage {
		page = constants.FirstPage
	}

	limit := constants.TicketPageSize
	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// TotalPages returns the number of pages needed for count items.
func TotalPages(count int64, pageSize int) int {
	pages := int(count) / pageSize
	if int(count)%pageSize > 0 {
		pages++
	}
	return pages
}

// NewPaginatedResponse builds the page wrapper for the given page of results.
func NewPaginatedResponse(results interface{}, count int64, params PaginationParams) PaginatedResponse {
	resp := PaginatedResponse{
		Count:   count,
		Results: results,
	}

	totalPages := TotalPages(count, params.Limit)
	if params.Page > constants.FirstPage {
		prev := params.Page - 1
		resp.Previous = &prev
	}
	if params.Page < totalPages {
		next := params.Page + 1
		resp.Next = &next
	}

	return resp
}

// HasPage reports whether the requested page exists for count items. Page 1
// always exists so an empty collection still yields an empty first page.
func HasPage(count int64, params PaginationParams) bool {
	if params.Page == constants.FirstPage {
		return true
	}
	return params.Page <= TotalPages(count, params.Limit)
}
