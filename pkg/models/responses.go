package models

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes the page count for a total.
func NewPagination(page, perPage int, total int64) Pagination {
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// DataResponse is the standard success envelope.
type DataResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// PaginatedResponse is the success envelope for paginated lists.
type PaginatedResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Message    string     `json:"message,omitempty"`
	Pagination Pagination `json:"pagination"`
}

// ErrorBody is the inner error object of an error response.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ReviewStats summarizes approved reviews.
type ReviewStats struct {
	Total         int64         `json:"total"`
	AverageRating float64       `json:"average_rating"`
	Distribution  map[int]int64 `json:"distribution"`
}

// ContactStats counts contact requests per status.
type ContactStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}
