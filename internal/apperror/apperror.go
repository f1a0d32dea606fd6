// Package apperror defines the failures the analysis API reports to callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input_error"
	case KindConfiguration:
		return "configuration_error"
	case KindUpstream:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

const (
	MsgNoFile          = "No file provided"
	MsgFileTooLarge    = "File too large"
	MsgUnsupportedType = "Unsupported file type"
	MsgUpstream        = "Hugging Face API error"
	MsgInternal        = "Unexpected server error"
)

// Error is a classified failure. Status overrides the kind's default HTTP
// status; UpstreamStatus and Detail are only set for upstream and internal
// failures.
type Error struct {
	Kind           Kind
	Message        string
	Status         int
	UpstreamStatus int
	Detail         string
	Err            error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUpstream:
		return fmt.Sprintf("%s: status %d: %s", e.Message, e.UpstreamStatus, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the status code the error is reported with.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the JSON body reported to the caller.
func (e *Error) Body() map[string]any {
	body := map[string]any{"error": e.Message}
	switch e.Kind {
	case KindUpstream:
		body["status"] = e.UpstreamStatus
		body["detail"] = e.Detail
	case KindInternal:
		body["detail"] = e.Detail
	}
	return body
}

// Input reports a missing or invalid upload with status 400.
func Input(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// InputWithStatus reports an invalid upload with a specific 4xx status.
func InputWithStatus(status int, message string) *Error {
	return &Error{Kind: KindInput, Message: message, Status: status}
}

// Configuration reports that the credential held in envVar is not set.
func Configuration(envVar string) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf("Server missing %s in environment", envVar)}
}

// Upstream reports a non-success answer from the classification service.
func Upstream(status int, body string) *Error {
	return &Error{Kind: KindUpstream, Message: MsgUpstream, UpstreamStatus: status, Detail: body}
}

// Internal wraps any other failure.
func Internal(err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: KindInternal, Message: MsgInternal, Detail: detail, Err: err}
}

// From finds the *Error in err's chain, classifying anything else as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
