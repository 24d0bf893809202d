package api

import (
	"encoding/json"
	"strings"
	"time"
)

// --- Property ---

// Property is a managed building as returned by GET /api/properties.
type Property struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	PropertyManagerName []string  `json:"propertyManagerName"`
	TenantIDs           []int64   `json:"tenantIDs"`
	CreatedAt           Timestamp `json:"created_at"`
	Archived            bool      `json:"archived"`
}

type propertiesResponse struct {
	Properties []Property `json:"properties"`
}

type archiveRequest struct {
	IDs []int64 `json:"ids"`
}

// --- Timestamp ---

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006-01-02",
}

// Timestamp decodes the backend's created_at values, which arrive in several
// string layouts. Raw keeps the original text for display when parsing fails.
type Timestamp struct {
	Time time.Time
	Raw  string
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string: null, or a number we do not interpret.
		t.Raw = strings.Trim(string(data), `"`)
		if t.Raw == "null" {
			t.Raw = ""
		}
		return nil
	}
	t.Raw = s
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
