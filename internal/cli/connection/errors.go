package connection

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// FieldError is one entry of a validation error list.
type FieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// Field returns the display name of the offending field: the second loc
// element when present (the first names the request part, e.g. "body"),
// otherwise the last one.
func (f FieldError) Field() string {
	switch len(f.Loc) {
	case 0:
		return ""
	case 1:
		return fmt.Sprint(f.Loc[0])
	default:
		return fmt.Sprint(f.Loc[1])
	}
}

// String renders "field: msg", or just msg when there is no location.
func (f FieldError) String() string {
	if field := f.Field(); field != "" {
		return field + ": " + f.Msg
	}
	return f.Msg
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseAPIError decodes {"detail": "..."} or {"detail": [{loc, msg}, ...]}.
// Anything else falls back to the body text or the status text.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if resp.Request != nil {
		apiErr.RequestID = resp.Request.Header.Get("X-Request-ID")
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(body.Detail, &msg); err == nil {
			apiErr.Message = msg
			return apiErr
		}

		var fields []FieldError
		if err := json.Unmarshal(body.Detail, &fields); err == nil && len(fields) > 0 {
			parts := make([]string, len(fields))
			for i, f := range fields {
				parts[i] = f.String()
			}
			apiErr.Fields = fields
			apiErr.Message = strings.Join(parts, ", ")
			return apiErr
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		apiErr.Message = text
	} else {
		apiErr.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return apiErr
}
