package dungeon

import (
	"math/rand"
	"sort"

	"undercroft-server/internal/domain"
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() domain.Position {
	return domain.Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Contains(p domain.Position) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// generateRooms вырезает комнаты в сплошной скале и соединяет их L-коридорами.
// Возвращает принятые комнаты, отсортированные по X. Пустой результат - уровень непригоден.
func generateRooms(grid *domain.TerrainGrid, optIn RoomOptions, pl PlacementConfig, rng *rand.Rand) []Rect {
	grid.Fill(domain.SolidRock)

	w, h := grid.Width(), grid.Height()
	opt := normalizeRooms(optIn, pl, w, h)

	attempts := max(pl.AttemptsMultiplier, opt.MaxRooms*pl.AttemptsPerRoom)
	rooms := make([]Rect, 0, opt.MaxRooms)

	for i := 0; i < attempts && len(rooms) < opt.MaxRooms; i++ {
		rw := randRange(rng, opt.RoomMin, opt.RoomMax)
		rh := randRange(rng, opt.RoomMin, opt.RoomMax)
		if rw >= w-pl.EdgeMargin || rh >= h-pl.EdgeMargin {
			continue
		}

		r := Rect{
			X: randRange(rng, 1, max(1, w-rw-pl.EdgeMargin)),
			Y: randRange(rng, 1, max(1, h-rh-pl.EdgeMargin)),
			W: rw,
			H: rh,
		}

		// Комната + зазор должны быть сплошной скалой: комнаты не сливаются
		if !areaIsSolid(grid, r, pl.RoomPadding) {
			continue
		}

		carveRect(grid, r)
		rooms = append(rooms, r)
	}

	if len(rooms) == 0 {
		return nil
	}

	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X < rooms[j].X })
	for i := 1; i < len(rooms); i++ {
		carveCorridorToEdge(grid, rooms[i-1].Center(), rooms[i].Center(), rng)
	}
	return rooms
}

func areaIsSolid(grid *domain.TerrainGrid, r Rect, pad int) bool {
	x0 := max(0, r.X-pad)
	y0 := max(0, r.Y-pad)
	x1 := min(grid.Width(), r.X+r.W+pad)
	y1 := min(grid.Height(), r.Y+r.H+pad)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if grid.At(domain.Position{X: x, Y: y}) != domain.SolidRock {
				return false
			}
		}
	}
	return true
}

func carveRect(grid *domain.TerrainGrid, r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			grid.Set(domain.Position{X: x, Y: y}, domain.OpenGround)
		}
	}
}

// carveCorridorToEdge - L-коридор со случайным порядком осей.
// Каждое плечо останавливается за клетку до открытой области, чтобы на стыке осталась стена под дверь.
func carveCorridorToEdge(grid *domain.TerrainGrid, a, b domain.Position, rng *rand.Rand) {
	if a == b {
		return
	}
	if rng.Intn(2) == 0 {
		digToEdge(grid, a, domain.Position{X: b.X, Y: a.Y})
		digToEdge(grid, domain.Position{X: b.X, Y: a.Y}, b)
	} else {
		digToEdge(grid, a, domain.Position{X: a.X, Y: b.Y})
		digToEdge(grid, domain.Position{X: a.X, Y: b.Y}, b)
	}
}

// digToEdge копает прямой отрезок from -> to (одна ось).
// Уже открытые клетки пропускаются; если следующая клетка открыта, копание прекращается.
func digToEdge(grid *domain.TerrainGrid, from, to domain.Position) {
	dx, dy := from.DirectionTo(to)
	if dx == 0 && dy == 0 {
		return // Вырожденное плечо
	}

	for p := from; ; p = p.Shift(dx, dy) {
		if grid.At(p) != domain.OpenGround {
			next := p.Shift(dx, dy)
			if grid.InBounds(next) && grid.At(next) == domain.OpenGround {
				return
			}
			grid.Set(p, domain.OpenGround)
		}
		if p == to {
			return
		}
	}
}

func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}
