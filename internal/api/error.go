package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP-level failure from the backend: the request completed
// but the status was outside the success range. Body holds the decoded
// response body (parsed JSON, or the raw text when not JSON).
type Error struct {
	Status int
	Body   interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d", e.Status)
}

// Detail extracts the backend's human-readable "detail" message from the
// error body, or "" when none is present.
func (e *Error) Detail() string {
	body, ok := e.Body.(map[string]interface{})
	if !ok {
		return ""
	}
	detail, _ := body["detail"].(string)
	return detail
}

// IsStatus reports whether err (or any error in its chain) is an API
// error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
