package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yigit/placement/internal/app/models/dto"
)

// Kind classifies API failures the way callers act on them.
type Kind int

const (
	KindServer Kind = iota
	KindAuth
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "server"
	}
}

// Sentinels for errors.Is; every *APIError matches the one of its Kind.
var (
	ErrUnauthorized = errors.New("authentication failed")
	ErrValidation   = errors.New("request rejected")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

var kindSentinels = map[Kind]error{
	KindAuth:       ErrUnauthorized,
	KindValidation: ErrValidation,
	KindNotFound:   ErrNotFound,
	KindConflict:   ErrConflict,
	KindServer:     ErrServer,
}

// APIError is a non-2xx answer from the placement API.
type APIError struct {
	Kind    Kind
	Status  int
	Code    dto.ErrorCode
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Is matches the sentinel of the error's kind
func (e *APIError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// newAPIError builds an APIError from a failed response body. Bodies that are
// not the JSON envelope still yield an error carrying the HTTP status text.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: http.StatusText(status),
	}

	var env struct {
		Error *dto.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		if env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
	}
	return apiErr
}

// asAuthFailure reclassifies rejected credentials and duplicate registrations.
func asAuthFailure(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind != KindServer && apiErr.Kind != KindValidation {
		apiErr.Kind = KindAuth
	}
	return err
}
