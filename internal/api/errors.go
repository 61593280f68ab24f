package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aurumfx/lbadmin/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// envelope is the wrapper every leaderboard API response uses.
// Older endpoints report the outcome in "status" instead of "success".
type envelope struct {
	Success *bool           `json:"success"`
	Status  *bool           `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	if e.Success == nil && e.Status == nil {
		return true
	}
	return (e.Success != nil && *e.Success) || (e.Status != nil && *e.Status)
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// DecodeEnvelope checks resp for errors and decodes the envelope's data field
// into target (which may be nil). Errors are returned as the model taxonomy:
// 401/403 as *model.AuthorizationError, anything else as *model.ServerError.
func DecodeEnvelope(resp *http.Response, target any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &model.TransportError{Op: "read response", Err: err}
	}

	var env envelope
	parseErr := json.Unmarshal(body, &env)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &model.AuthorizationError{Message: env.message()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.message()
		if parseErr != nil && len(bytes.TrimSpace(body)) > 0 && len(body) < 200 {
			msg = string(bytes.TrimSpace(body))
		}
		return &model.ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if parseErr != nil {
		return &model.ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", parseErr)}
	}
	if !env.ok() {
		msg := env.message()
		if msg == "" {
			msg = "request failed"
		}
		return &model.ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if target == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return &model.ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
