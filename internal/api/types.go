package api

import (
	"alphamastery/internal/mastery"
	"alphamastery/internal/rotation"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
	StatusOK      = "ok"
)

// RotationNextRequest asks for the next item of a rotation key.
type RotationNextRequest struct {
	RotationKey string `json:"rotation_key"`
}

// ItemResponse wraps one rotation item.
type ItemResponse struct {
	Status string        `json:"status"`
	Item   rotation.Item `json:"item"`
}

// MasteryCheckRequest carries an attempt to score.
type MasteryCheckRequest struct {
	Expected  string `json:"expected"`
	Submitted string `json:"submitted"`
}

// MasteryCheckResponse reports the score and verdict.
type MasteryCheckResponse struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// CanvasRequest is a handwritten letter submission.
type CanvasRequest struct {
	CanvasInput    string `json:"canvas_input"`
	ExpectedLetter string `json:"expected_letter"`
	// IsCapital is "capital" or "small".
	IsCapital string `json:"is_capital"`
	Level     string `json:"level"`
}

// CanvasResponse flattens the verification next to the status.
type CanvasResponse struct {
	Status string `json:"status"`
	mastery.Verification
}

// LevelRequest selects a difficulty level.
type LevelRequest struct {
	Level string `json:"level"`
}

// MythRequest optionally overrides the myth batch size.
type MythRequest struct {
	BatchSize int `json:"batch_size,omitempty"`
}

// ParentChatRequest is a parent's question.
type ParentChatRequest struct {
	Question string `json:"question"`
	KBHit    string `json:"kb_hit,omitempty"`
}

// DataResponse wraps a single activity payload.
type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ListResponse wraps a batch of activity payloads.
type ListResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   any    `json:"data"`
}

// EmptyResponse reports a rotation group with nothing to serve.
type EmptyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
}

// ContentCount is the number of items stored for a rotation key.
type ContentCount struct {
	Key   string `json:"rotation_key"`
	Count int    `json:"count"`
}

// ServiceStatus aggregates runtime information for GET /api/status.
type ServiceStatus struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	DatabasePath  string         `json:"database_path"`
	LockFilePath  string         `json:"lock_file_path,omitempty"`
	Content       []ContentCount `json:"content"`
	VisionEnabled bool           `json:"vision_enabled"`
	LLMEnabled    bool           `json:"llm_enabled"`
}
