// Package form renders schema groups as grids of live controls and hosts
// them in a tabbed settings view that exchanges flat value maps with its
// caller.
package form

import "github.com/dtg01100/touch-settings/internal/schema"

// Columns is the number of grid columns a group is laid out in.
const Columns = 2

// Cell is the grid position of one field.
type Cell struct {
	Key  string
	Row  int
	Col  int
	Span int
}

// Layout places fields into a two-column grid in declaration order.
// Integer lists always start a fresh row, span both columns and leave the
// next field on a fresh row.
func Layout(fields []schema.SettingField) []Cell {
	cells := make([]Cell, 0, len(fields))
	row, col := 0, 0
	for _, f := range fields {
		if f.WidgetType == schema.WidgetIntList {
			if col != 0 {
				row++
				col = 0
			}
			cells = append(cells, Cell{Key: f.Key, Row: row, Col: 0, Span: Columns})
			row++
			continue
		}
		cells = append(cells, Cell{Key: f.Key, Row: row, Col: col, Span: 1})
		col++
		if col == Columns {
			row++
			col = 0
		}
	}
	return cells
}

// Rows returns the number of grid rows cells occupy.
func Rows(cells []Cell) int {
	rows := 0
	for _, c := range cells {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
	}
	return rows
}
