package properties

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a sortable column of the list.
type SortField int

const (
	SortNone SortField = iota
	SortName
	SortManagers
	SortAddress
	SortTenants
	SortCreated
)

// SortFields lists the sortable fields in column order.
var SortFields = []SortField{SortName, SortManagers, SortAddress, SortTenants, SortCreated}

func (f SortField) String() string {
	switch f {
	case SortName:
		return "name"
	case SortManagers:
		return "managers"
	case SortAddress:
		return "address"
	case SortTenants:
		return "tenants"
	case SortCreated:
		return "created"
	default:
		return "none"
	}
}

// Sorted returns a sorted copy of records. Ties keep their input order, and
// SortNone returns the input order unchanged.
func Sorted(records []Record, field SortField, desc bool) []Record {
	out := append([]Record(nil), records...)
	if field == SortNone {
		return out
	}
	col := collate.New(language.English, collate.IgnoreCase, collate.Loose)
	cmp := func(a, b Record) int {
		switch field {
		case SortName:
			return col.CompareString(a.Name, b.Name)
		case SortManagers:
			return col.CompareString(a.Managers(), b.Managers())
		case SortAddress:
			return col.CompareString(strings.TrimSpace(a.Address), strings.TrimSpace(b.Address))
		case SortTenants:
			return a.TenantCount - b.TenantCount
		case SortCreated:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return 0
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}
