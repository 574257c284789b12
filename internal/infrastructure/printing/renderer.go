package printing

import (
	"context"
	"time"
)

// A4 page geometry. The template is laid out in CSS pixels at 96dpi and the
// PDF is printed on 210x297mm paper with no margins.
const (
	PageWidthPx  = 794
	PageHeightPx = 1123
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML is a complete document or a body fragment
	HTML string
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the renderer's default timeout
	Timeout time.Duration
	// ImageWaitTimeout overrides how long images may take to load
	ImageWaitTimeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
	// HiddenImages counts images that failed or timed out and were hidden
	HiddenImages int
}

// PDFRenderer converts HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during PDF rendering or storage
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeStorageFailed = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
