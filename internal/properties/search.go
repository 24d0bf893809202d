package properties

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records whose name, address or any manager name contains
// query, ignoring case. A blank query returns records unchanged and false.
func Filter(records []Record, query string) ([]Record, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return records, false
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if recordMatches(fold, r, needle) {
			out = append(out, r)
		}
	}
	return out, true
}

func recordMatches(fold cases.Caser, r Record, needle string) bool {
	if strings.Contains(fold.String(r.Name), needle) {
		return true
	}
	if strings.Contains(fold.String(r.Address), needle) {
		return true
	}
	for _, m := range r.ManagerNames {
		if strings.Contains(fold.String(m), needle) {
			return true
		}
	}
	return false
}
