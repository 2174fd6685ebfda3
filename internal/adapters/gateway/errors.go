package gateway

import (
	"encoding/json"
	"strings"

	"github.com/bnema/aicms-cli/internal/domain"
)

// newServerError extracts the backend's own message from a failure payload.
// DRF answers with {"error": ...}, {"detail": ...} or a map of field lists.
func newServerError(status int, payload []byte) *domain.ServerError {
	serverErr := &domain.ServerError{StatusCode: status}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return serverErr
	}

	for _, key := range []string{"error", "detail"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var message string
		if err := json.Unmarshal(raw, &message); err == nil && strings.TrimSpace(message) != "" {
			serverErr.Message = strings.TrimSpace(message)
			break
		}
	}

	for name, raw := range fields {
		if name == "error" || name == "detail" {
			continue
		}
		if messages := decodeFieldMessages(raw); len(messages) > 0 {
			if serverErr.Fields == nil {
				serverErr.Fields = map[string][]string{}
			}
			serverErr.Fields[name] = messages
		}
	}

	return serverErr
}

func decodeFieldMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}

	return nil
}
