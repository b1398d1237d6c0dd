package dto

// SessionRequest carries the token obtained from the backend login.
type SessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// FilterUpdateRequest merges a single filter field.
type FilterUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SelectionRequest replaces the record selection. All selects the whole
// current page and ignores IDs.
type SelectionRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// CaptureChangeRequest updates one form field.
type CaptureChangeRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// DeleteResult echoes a bulk delete.
type DeleteResult struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}
