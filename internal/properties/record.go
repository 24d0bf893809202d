package properties

import (
	"strings"
	"time"

	"github.com/dwellingly/dwellingly-cli/internal/api"
)

// Record is one property row as the list view sees it.
type Record struct {
	ID           int64
	Name         string
	Address      string
	ManagerNames []string
	TenantCount  int
	CreatedAt    time.Time
	Archived     bool
}

// Managers joins manager names for display.
func (r Record) Managers() string {
	return strings.Join(r.ManagerNames, ", ")
}

// RecordFromAPI converts a wire property.
func RecordFromAPI(p api.Property) Record {
	var managers []string
	if len(p.PropertyManagerName) > 0 {
		managers = append(managers, p.PropertyManagerName...)
	}
	return Record{
		ID:           p.ID,
		Name:         p.Name,
		Address:      p.Address,
		ManagerNames: managers,
		TenantCount:  len(p.TenantIDs),
		CreatedAt:    p.CreatedAt.Time,
		Archived:     p.Archived,
	}
}

// RecordsFromAPI converts a fetch result, keeping fetch order and dropping
// repeated ids after their first occurrence.
func RecordsFromAPI(items []api.Property) []Record {
	out := make([]Record, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, p := range items {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, RecordFromAPI(p))
	}
	return out
}
