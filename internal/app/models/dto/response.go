package dto

import (
	"net/http"
	"time"
)

// Result is what a service hands back to the transport: a status code, a human
// message and a payload. It carries no HTTP machinery and is serialized by the
// controllers into a StructuredResponse.
type Result struct {
	StatusCode int
	Message    string
	Data       interface{}
}

// OK builds a 200 result
func OK(data interface{}, message string) Result {
	return Result{StatusCode: http.StatusOK, Message: message, Data: data}
}

// Created builds a 201 result
func Created(data interface{}, message string) Result {
	return Result{StatusCode: http.StatusCreated, Message: message, Data: data}
}

// StructuredResponse is the envelope of every API response
type StructuredResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Envelope converts a result into the response body
func (r Result) Envelope() StructuredResponse {
	return NewStructuredResponse(r.Data, r.Message)
}

// CursorPage is one page of a keyset-paginated listing.
// NextCursor is nil on the last page.
type CursorPage[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}
