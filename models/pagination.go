package models

// PaginatedPredictionsResponse is the response structure for a page of prediction history.
type PaginatedPredictionsResponse struct {
	Data       []PredictionRecord `json:"data"`
	Pagination PaginationInfo     `json:"pagination"`
}

// PaginationInfo holds metadata for paginated responses.
type PaginationInfo struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}
