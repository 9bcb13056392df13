// Package notify routes user-visible failures from any component to a single
// registered handler.
package notify

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/resume"
)

// Severity classifies a notice.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notice is a single user-visible report.
type Notice struct {
	Title    string
	Message  string
	Severity Severity
}

// Handler receives notices.
type Handler func(Notice)

// Surface holds at most one handler. Reports made while no handler is
// registered go to the logger.
type Surface struct {
	mu      sync.RWMutex
	handler Handler
	logger  *zap.Logger
}

// New returns a surface with no handler registered.
func New(logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{logger: logger}
}

// Register installs h, replacing any previous handler. A nil h unregisters.
func (s *Surface) Register(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Report delivers a notice to the handler, or logs it when none is registered.
func (s *Surface) Report(title, message string, severity Severity) {
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()

	n := Notice{Title: title, Message: message, Severity: severity}
	if h != nil {
		h(n)
		return
	}

	fields := []zap.Field{
		zap.String("title", title),
		zap.String("message", message),
		zap.String("severity", string(severity)),
	}
	switch severity {
	case SeverityInfo:
		s.logger.Info("user notice", fields...)
	case SeverityWarning:
		s.logger.Warn("user notice", fields...)
	default:
		s.logger.Error("user notice", fields...)
	}
}

// FileUploadError reports a failed résumé upload.
func (s *Surface) FileUploadError(err error) {
	s.logger.Debug("file upload failed", zap.Error(err))

	if errors.Is(err, resume.ErrUnsupportedFileType) {
		s.Report("Invalid File Type", "Please upload a PDF or DOCX file.", SeverityWarning)
		return
	}
	s.Report("File Upload Error", "There was an error processing your resume. Please try again.", SeverityError)
}

// APIError reports a failed or degenerate call to the AI service.
func (s *Surface) APIError(err error) {
	s.logger.Debug("ai call failed", zap.Error(err))
	s.Report("Connection Error", "Unable to connect to AI service. Please check your internet connection and try again.", SeverityError)
}

// TimerInterrupted reports that the countdown stopped unexpectedly.
func (s *Surface) TimerInterrupted() {
	s.Report("Timer Interrupted", "The timer was interrupted. Your answer has been automatically submitted.", SeverityInfo)
}

// Queue returns a handler that buffers notices on the returned channel. When the
// buffer is full the oldest pending notice is dropped.
func Queue(size int) (Handler, <-chan Notice) {
	if size <= 0 {
		size = 1
	}
	ch := make(chan Notice, size)
	h := func(n Notice) {
		for {
			select {
			case ch <- n:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
	return h, ch
}
