package go_stripe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stremovskyy/go-stripe/internal/httpclient"
	"github.com/stremovskyy/go-stripe/internal/validation"
)

// ValidationError indicates that a request is missing required fields or contains invalid data.
// Field names are wire paths such as "line_items[0].quantity".
type ValidationError = validation.Error

type FieldError = validation.FieldError

// IsValidationError checks whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
	Param      string
	RequestID  string
	Body       []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "stripe api error"
	}
	if e.Message != "" {
		if e.Param != "" {
			return fmt.Sprintf("stripe api error: status %d: %s: %s (param %s)", e.StatusCode, e.Type, e.Message, e.Param)
		}
		return fmt.Sprintf("stripe api error: status %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("stripe api error: status %d", e.StatusCode)
	}
	b := e.Body
	if len(b) > 1024 {
		b = b[:1024]
	}
	return fmt.Sprintf("stripe api error: status %d: %s", e.StatusCode, string(b))
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var hs *httpclient.HTTPStatusError
	if !errors.As(err, &hs) {
		return err
	}
	apiErr := &APIError{StatusCode: hs.StatusCode, RequestID: hs.RequestID, Body: hs.Body}
	var env errorEnvelope
	if json.Unmarshal(hs.Body, &env) == nil {
		apiErr.Type = env.Error.Type
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Param = env.Error.Param
	}
	return apiErr
}
