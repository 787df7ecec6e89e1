package autofill

import "time"

// State is a pipeline stage.
type State string

const (
	StateIdle             State = "idle"
	StateFileSelected     State = "file_selected"
	StateExtractingImages State = "extracting_images"
	StatePerformingOCR    State = "performing_ocr"
	StateAwaitingAIParse  State = "awaiting_ai_parse"
	StateApplying         State = "applying"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Status is a snapshot of the pipeline for progress reporting.
type Status struct {
	State    State  `json:"state"`
	Message  string `json:"message"`
	Page     int    `json:"page,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Progress int    `json:"progress"`
	// ExtractedText accumulates recognized text as pages complete.
	ExtractedText string `json:"extractedText,omitempty"`
	// RawResponse is the AI output kept when it could not be parsed.
	RawResponse string `json:"rawResponse,omitempty"`
	// LastOutcome is Done or Failed once a run has finished.
	LastOutcome State     `json:"lastOutcome,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s State) running() bool {
	switch s {
	case StateFileSelected, StateExtractingImages, StatePerformingOCR, StateAwaitingAIParse, StateApplying:
		return true
	default:
		return false
	}
}
