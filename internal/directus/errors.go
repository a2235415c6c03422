package directus

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrorEntry is one entry of the server's error envelope.
type ErrorEntry struct {
	Message string
	Code    string
}

func (e ErrorEntry) String() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// APIError is returned when the server answers with a non-empty error list
// instead of a usable document. It is a distinct error class so callers can
// tell "could not reach/parse" from "reached but server rejected".
type APIError struct {
	Errors []ErrorEntry
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request with %d error(s): %s", len(e.Errors), e.Errors[0].Message)
}

// parseErrorEnvelope inspects a response body for the Directus error envelope
// ({"errors":[...]}) and returns an APIError if it holds at least one entry.
func parseErrorEnvelope(body []byte) *APIError {
	var entries []ErrorEntry
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil || dataType != jsonparser.Object {
			return
		}
		var entry ErrorEntry
		entry.Message, _ = jsonparser.GetString(value, "message")
		entry.Code, _ = jsonparser.GetString(value, "extensions", "code")
		if entry.Message == "" && entry.Code == "" {
			entry.Message = string(value)
		}
		entries = append(entries, entry)
	}, "errors")
	if err != nil || len(entries) == 0 {
		return nil
	}
	return &APIError{Errors: entries}
}
