// internal/common/errors/handler.go
package errors

import "time"

// Handler normalizes and logs task errors with standardized handling.
type Handler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// HandleTaskError normalizes any error raised by a worker task, logs it,
// and reports whether the task should be retried on the next run.
func (h *Handler) HandleTaskError(taskName string, err error) bool {
	stdErr := h.normalizeError(err)

	h.logger.Error("task failed", map[string]interface{}{
		"task":          taskName,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return stdErr.Retryable && GetRetryCount(stdErr.Code) > 0
}

// LogWarning logs a non-fatal StandardError (data-integrity findings and
// the like) without failing the task.
func (h *Handler) LogWarning(taskName string, stdErr *StandardError) {
	h.logger.Warn(stdErr.Message, map[string]interface{}{
		"task":          taskName,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}

// normalizeError ensures we always have a StandardError.
func (h *Handler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
