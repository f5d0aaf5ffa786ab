package api

import "encoding/json"

// Response is the envelope every portal endpoint wraps its payload in.
type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

// ListResult is the page shape list endpoints return.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Pages int `json:"pages"`
}

// ErrorBody is the minimal shape an error response is probed for: only the
// message field matters to the client.
type ErrorBody struct {
	Message string `json:"message"`
}

// ExtractMessage pulls the display message out of a raw error body.
// Returns "" when the body has no usable message field.
func ExtractMessage(raw []byte) string {
	var body ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
