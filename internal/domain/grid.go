package domain

import "errors"

// ErrInvalidDimensions - ширина или высота карты не положительны.
var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

// TerrainGrid - плотный row-major массив видов местности фиксированного размера.
type TerrainGrid struct {
	width  int
	height int
	cells  []TerrainKind
	props  *PropertyTable
}

// NewTerrainGrid создает сетку, залитую fill. props == nil означает таблицу по умолчанию.
func NewTerrainGrid(width, height int, fill TerrainKind, props *PropertyTable) (*TerrainGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if props == nil {
		props = NewPropertyTable()
	}
	g := &TerrainGrid{
		width:  width,
		height: height,
		cells:  make([]TerrainKind, width*height),
		props:  props,
	}
	g.Fill(fill)
	return g, nil
}

func (g *TerrainGrid) Width() int  { return g.width }
func (g *TerrainGrid) Height() int { return g.height }

// Props возвращает таблицу свойств, с которой создана сетка.
func (g *TerrainGrid) Props() *PropertyTable { return g.props }

func (g *TerrainGrid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Index - индекс клетки в row-major массиве: Y * Width + X
func (g *TerrainGrid) Index(p Position) int {
	return p.Y*g.width + p.X
}

// At возвращает вид клетки. За границами карты - SolidRock.
func (g *TerrainGrid) At(p Position) TerrainKind {
	if !g.InBounds(p) {
		return SolidRock
	}
	return g.cells[g.Index(p)]
}

// Set меняет вид клетки. Запись за границы игнорируется (возвращает false).
func (g *TerrainGrid) Set(p Position, kind TerrainKind) bool {
	if !g.InBounds(p) {
		return false
	}
	g.cells[g.Index(p)] = kind
	return true
}

func (g *TerrainGrid) Fill(kind TerrainKind) {
	for i := range g.cells {
		g.cells[i] = kind
	}
}

// BlocksMovement - true для непроходимых клеток и для любой точки за границей.
func (g *TerrainGrid) BlocksMovement(p Position) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.props.BlocksMovement(g.cells[g.Index(p)])
}

// BlocksSight - true для непрозрачных клеток и для любой точки за границей.
func (g *TerrainGrid) BlocksSight(p Position) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.props.BlocksSight(g.cells[g.Index(p)])
}

// MovementCost возвращает стоимость входа в клетку (<0 - непроходимо).
func (g *TerrainGrid) MovementCost(p Position) int {
	if !g.InBounds(p) {
		return -1
	}
	return g.props.Properties(g.cells[g.Index(p)]).MovementCost
}

// Count считает клетки заданного вида.
func (g *TerrainGrid) Count(kind TerrainKind) int {
	n := 0
	for _, c := range g.cells {
		if c == kind {
			n++
		}
	}
	return n
}

// Clone возвращает независимую копию (таблица свойств общая).
func (g *TerrainGrid) Clone() *TerrainGrid {
	cells := make([]TerrainKind, len(g.cells))
	copy(cells, g.cells)
	return &TerrainGrid{width: g.width, height: g.height, cells: cells, props: g.props}
}
