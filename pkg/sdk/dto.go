package sdk

import (
	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// Status values used in API response envelopes
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  string `json:"status"`          // Status message
	Code    int    `json:"code"`            // Status code
	Message string `json:"message"`         // Human-readable message
	Data    T      `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any    `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err error) ApiResponse[any] {
	resp := ApiResponse[any]{
		Status:  StatusError,
		Code:    code,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

/** Requests */

// CreateSessionRequest represents the request body for creating a new session
type CreateSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// PostMessageRequest represents the request body for sending a user message
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Speech  bool   `json:"speech"`
	Voice   string `json:"voice"`
}

/** Responses */

// Session represents a conversation session over the wire
type Session struct {
	ID       string      `json:"id"`
	UserID   string      `json:"user_id"`
	ThreadID string      `json:"thread_id,omitempty"`
	Turns    []chat.Turn `json:"turns"`
}

// MessageResult is the final payload of a message turn, delivered as the
// terminating event of the reply stream
type MessageResult struct {
	Reply chat.Turn `json:"reply"`

	// AudioDataURI carries the synthesized clip as a base64 data URI,
	// empty when speech was disabled or failed
	AudioDataURI string `json:"audio_data_uri,omitempty"`

	// AudioError reports a recoverable speech failure; the text reply is
	// still valid
	AudioError string `json:"audio_error,omitempty"`
}

/** Stream events */

// Event names used on the message reply stream
const (
	EventDelta = "delta"
	EventTurn  = "turn"
	EventAudio = "audio"
	EventError = "error"
	EventDone  = "done"
)

// DeltaEvent replaces the in-progress assistant message with Text
type DeltaEvent struct {
	Text string `json:"text"`
}

// ErrorEvent reports a turn-level failure on the stream
type ErrorEvent struct {
	Message string `json:"message"`
}
