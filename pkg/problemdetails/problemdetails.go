package problemdetails

import (
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// ContentType is the media type of a problem document.
const ContentType = "application/problem+json"

const (
	TypeInvalidRequest  = "invalid-request"
	TypeUnauthorized    = "unauthorized"
	TypeNotFound        = "not-found"
	TypeConflict        = "conflict"
	TypeInternalError   = "internal-error"
	TypeValidationError = "validation-error"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ProblemDetail struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail"`
	Reason string       `json:"reason,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

func New(status int, problemType, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   fmt.Sprintf("https://oublog.example.org/problems/%s", problemType),
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func NewValidation(errors []FieldError) *ProblemDetail {
	return &ProblemDetail{
		Type:   fmt.Sprintf("https://oublog.example.org/problems/%s", TypeValidationError),
		Title:  "Validation Failed",
		Status: 400,
		Detail: "Request validation failed",
		Errors: errors,
	}
}

// FromError converts any error into a problem document. Kratos errors keep their
// code, reason and message. A field in the error metadata becomes a field error.
func FromError(err error) *ProblemDetail {
	se := errors.FromError(err)
	status := int(se.Code)

	var p *ProblemDetail
	if field, ok := se.Metadata["field"]; ok && status == 400 {
		p = NewValidation([]FieldError{{Field: field, Message: se.Message}})
	} else {
		p = New(status, problemType(status), title(se.Reason), se.Message)
	}
	p.Reason = se.Reason
	return p
}

func problemType(status int) string {
	switch status {
	case 400:
		return TypeInvalidRequest
	case 401:
		return TypeUnauthorized
	case 404:
		return TypeNotFound
	case 409:
		return TypeConflict
	default:
		return TypeInternalError
	}
}

// title turns a reason such as COMMENT_NOT_FOUND into "Comment not found".
func title(reason string) string {
	if reason == "" {
		return "Internal Error"
	}
	words := strings.ToLower(strings.ReplaceAll(reason, "_", " "))
	return strings.ToUpper(words[:1]) + words[1:]
}
