package api

import "time"

// Public JSON types returned by the API. These are decoupled from the post
// package so the store can change without breaking clients.

// PostView is the wire form of a post.
type PostView struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePostRequest is the body of POST /api/posts. Pointers distinguish an
// absent field from an empty string.
type CreatePostRequest struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

// UpdatePostRequest is the body of PUT /api/posts/{id}. Absent fields are left untouched.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// NoPostsResponse is returned by GET /api/posts when the collection is empty.
type NoPostsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the payload for GET /api/status.
type StatusResponse struct {
	StartedAt   string `json:"started_at"`
	UptimeSec   int64  `json:"uptime_sec"`
	Posts       int    `json:"posts"`
	NextID      int64  `json:"next_id"`
	GeneratedAt string `json:"generated_at"`
}

// APIError is a standard error payload. Missing is set only when required
// body fields were absent.
type APIError struct {
	Error     string   `json:"error"`
	Missing   []string `json:"missing,omitempty"`
	Timestamp string   `json:"timestamp"` // RFC3339
}

// TimeNow abstracts time for tests; overridden in tests.
var TimeNow = func() time.Time { return time.Now() }
