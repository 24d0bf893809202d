package components

import "github.com/charmbracelet/lipgloss"

// Column is a named field of a SelectTable. Width is a weight: the table
// spreads the available width across columns in proportion to it.
type Column struct {
	Field    string
	Header   string
	Width    int
	Align    lipgloss.Position
	Sortable bool
}

// SelectRow is one row of a SelectTable, keyed by field.
type SelectRow struct {
	Cells      map[string]string
	Selected   bool
	Selectable bool
}

const markerWidth = 3

// SelectTable renders rows behind a selection marker column. sort.Column
// indexes into columns, not counting the marker.
func SelectTable(columns []Column, rows []SelectRow, tableWidth int, activeRow int, sort SortState) string {
	grid := make([]TableColumn, 0, len(columns)+1)
	grid = append(grid, TableColumn{Width: markerWidth})

	available := tableWidth - tableGridLeftOffset - markerWidth - len(columns)
	weights := 0
	for _, c := range columns {
		weights += maxWeight(c.Width)
	}
	for _, c := range columns {
		w := 1
		if weights > 0 && available > 0 {
			w = available * maxWeight(c.Width) / weights
		}
		grid = append(grid, TableColumn{
			Header:   c.Header,
			Width:    w,
			Align:    c.Align,
			Sortable: c.Sortable,
		})
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, 0, len(columns)+1)
		line = append(line, SelectionMarker(r.Selected, r.Selectable))
		for _, c := range columns {
			line = append(line, r.Cells[c.Field])
		}
		cells[i] = line
	}

	gridSort := Unsorted
	if sort.Column >= 0 && sort.Column < len(columns) {
		gridSort = SortState{Column: sort.Column + 1, Descending: sort.Descending}
	}
	return SortedTableGrid(grid, cells, tableWidth, activeRow, gridSort)
}

func maxWeight(w int) int {
	if w < 1 {
		return 1
	}
	return w
}
