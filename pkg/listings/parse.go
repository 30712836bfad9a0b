package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrResponseFormat marks a provider response that was received fine but is
// not the JSON array of listings the prompt asked for.
var ErrResponseFormat = errors.New("response is not a JSON array of listings")

// ParseListings decodes a raw provider response into candidate records.
// The prompt instructs the model to skip markdown fencing, but that is not
// reliably honored, so one optional ```json fence pair is stripped first.
// Anything that is not an array comes back as an ErrResponseFormat error.
func ParseListings(raw string) ([]json.RawMessage, error) {
	cleaned := stripFence(raw)
	if cleaned == "" || cleaned == "null" {
		return nil, fmt.Errorf("%w: empty response", ErrResponseFormat)
	}

	var candidates []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}
	return candidates, nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
