package physics

// Cell identifies a grid cell by column and row.
type Cell struct {
	Col, Row int
}

// Manhattan returns the grid distance |dc| + |dr| between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Col-o.Col) + abs(c.Row-o.Row)
}

// Grid is a uniform, non-wrapping partition of the arena into cols×rows cells.
// Barrier layout uses it to spread obstacles and keep them away from the player.
type Grid struct {
	cols, rows int
	cellWidth  float64
	cellHeight float64
	invCellW   float64 // 1 / cellWidth (precomputed to avoid division)
	invCellH   float64 // 1 / cellHeight
}

// NewGrid divides an arena of the given size into cols×rows equal cells.
func NewGrid(width, height float64, cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cw := width / float64(cols)
	ch := height / float64(rows)
	return &Grid{
		cols:       cols,
		rows:       rows,
		cellWidth:  cw,
		cellHeight: ch,
		invCellW:   1.0 / cw,
		invCellH:   1.0 / ch,
	}
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// CellAt converts arena coordinates to the cell containing them.
// Clamps to valid range so positions on or past the border map to edge cells.
func (g *Grid) CellAt(x, y float64) Cell {
	col := int(x * g.invCellW)
	if x < 0 || col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row := int(y * g.invCellH)
	if y < 0 || row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return Cell{Col: col, Row: row}
}

// Bounds returns the arena rectangle covered by a cell.
func (g *Grid) Bounds(c Cell) Rect {
	return Rect{
		X:      float64(c.Col) * g.cellWidth,
		Y:      float64(c.Row) * g.cellHeight,
		Width:  g.cellWidth,
		Height: g.cellHeight,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
