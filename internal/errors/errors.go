// Package errors provides the error taxonomy shared by the chatbot engine.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// stable code and a Category. The dispatcher, the remote clients and the CLI
// branch on the category; tests and logs key on the code.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category decides how a caller reacts to an error.
type Category int

const (
	// CategoryTemporary failures may succeed on retry: timeouts, 5xx, dropped connections.
	CategoryTemporary Category = iota
	// CategoryPermanent failures repeat on retry: malformed API bodies.
	CategoryPermanent
	// CategoryUser failures come from what the user typed or configured.
	CategoryUser
	// CategorySystem failures come from the host: the store, the filesystem.
	CategorySystem
	// CategoryRateLimit failures carry a RetryAfter hint.
	CategoryRateLimit
)

var categoryNames = [...]string{
	CategoryTemporary: "temporary",
	CategoryPermanent: "permanent",
	CategoryUser:      "user",
	CategorySystem:    "system",
	CategoryRateLimit: "rate_limit",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

func (c Category) retryable() bool {
	return c == CategoryTemporary || c == CategoryRateLimit
}

// AppError is the error type returned by engine packages. Message is safe to
// show to the user; Inner and Context are for logs.
type AppError struct {
	Code        string
	Message     string
	Category    Category
	Inner       error
	Retryable   bool
	Suggestions []string
	Context     map[string]any
	RetryAfter  time.Duration
}

// Error renders "[CODE] message: inner".
func (e *AppError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = "[" + e.Code + "] " + msg
	}
	if e.Inner != nil {
		if inner := e.Inner.Error(); inner != "" && inner != e.Message {
			msg += ": " + inner
		}
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Inner }

// Is matches another AppError by code, otherwise defers to the inner error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok && t.Code != "" {
		return t.Code == e.Code
	}
	return errors.Is(e.Inner, target)
}

func newError(code, message string, category Category) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Category:  category,
		Retryable: category.retryable(),
	}
}

// Wrap attaches a code and message to err. Retry hints of a wrapped
// AppError survive the wrap. Wrap(nil, ...) is nil.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}
	wrapped := newError(code, message, category)
	wrapped.Inner = err
	if inner, ok := err.(*AppError); ok {
		wrapped.Retryable = inner.Retryable
		wrapped.RetryAfter = inner.RetryAfter
		wrapped.Suggestions = inner.Suggestions
		wrapped.Context = inner.Context
	}
	return wrapped
}

// Temporary returns a retryable error.
func Temporary(code, message string) *AppError { return newError(code, message, CategoryTemporary) }

// Permanent returns an error that retrying will not fix.
func Permanent(code, message string) *AppError { return newError(code, message, CategoryPermanent) }

// User returns an error caused by user input.
func User(code, message string) *AppError { return newError(code, message, CategoryUser) }

// System returns a host-level error.
func System(code, message string) *AppError { return newError(code, message, CategorySystem) }

// RateLimit returns a retryable error that asks callers to wait retryAfter.
func RateLimit(code, message string, retryAfter time.Duration) *AppError {
	err := newError(code, message, CategoryRateLimit)
	err.RetryAfter = retryAfter
	err.Suggestions = []string{fmt.Sprintf("Wait %s before retrying", retryAfter)}
	return err
}

// Builder assembles an AppError with suggestions and log context. Errors
// start as system errors; call User for input problems.
type Builder struct {
	err *AppError
}

func NewBuilder(code, message string) *Builder {
	err := newError(code, message, CategorySystem)
	err.Context = make(map[string]any)
	return &Builder{err: err}
}

func (b *Builder) User() *Builder {
	b.err.Category = CategoryUser
	b.err.Retryable = false
	return b
}

func (b *Builder) System() *Builder {
	b.err.Category = CategorySystem
	b.err.Retryable = false
	return b
}

func (b *Builder) Wrap(err error) *Builder {
	b.err.Inner = err
	return b
}

func (b *Builder) WithSuggestion(suggestion string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, suggestion)
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	b.err.Context[key] = value
	return b
}

func (b *Builder) Build() *AppError { return b.err }

// Error codes.
const (
	// intent catalog and classifier model files
	CodeCatalogInvalid  = "CATALOG_INVALID"
	CodeCatalogNotFound = "CATALOG_NOT_FOUND"
	CodeModelInvalid    = "MODEL_INVALID"

	CodeHandlerNotFound = "HANDLER_NOT_FOUND"

	// side-data store
	CodeMemoryUnavailable    = "MEMORY_UNAVAILABLE"
	CodeMemoryStoreFailed    = "MEMORY_STORE_FAILED"
	CodeMemoryRetrieveFailed = "MEMORY_RETRIEVE_FAILED"

	// joke and dictionary APIs
	CodeNetworkUnavailable = "NETWORK_UNAVAILABLE"
	CodeNetworkTimeout     = "NETWORK_TIMEOUT"
	CodeRemoteBadStatus    = "REMOTE_BAD_STATUS"
	CodeRemoteBadBody      = "REMOTE_BAD_BODY"
	CodeRemoteRateLimit    = "REMOTE_RATE_LIMIT"
	CodeWordNotFound       = "WORD_NOT_FOUND"

	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationFailed = "VALIDATION_FAILED"
)

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// GetCategory returns the category of the outermost AppError.
// Plain errors count as temporary.
func GetCategory(err error) Category {
	if appErr, ok := asAppError(err); ok {
		return appErr.Category
	}
	return CategoryTemporary
}

// GetCode returns the code of the outermost AppError, or "".
func GetCode(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsRetryable reports whether err is worth retrying. Plain errors are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := asAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

// GetRetryAfter returns the wait hint of a rate-limit error, or zero.
func GetRetryAfter(err error) time.Duration {
	if appErr, ok := asAppError(err); ok {
		return appErr.RetryAfter
	}
	return 0
}

// FormatUserMessage renders err for the terminal: the message, then any
// suggestions as a list.
func FormatUserMessage(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := asAppError(err)
	if !ok {
		return err.Error()
	}
	if len(appErr.Suggestions) == 0 {
		return appErr.Message
	}
	var sb strings.Builder
	sb.WriteString(appErr.Message)
	sb.WriteString("\n\nSuggestions:")
	for _, s := range appErr.Suggestions {
		sb.WriteString("\n  - ")
		sb.WriteString(s)
	}
	return sb.String()
}
