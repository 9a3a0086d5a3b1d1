package dungeon

import (
	"math/rand"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"
)

// generateCaves - засев + клеточный автомат + починка связности.
func generateCaves(grid *domain.TerrainGrid, opt CaveOptions, rng *rand.Rand) {
	w, h := grid.Width(), grid.Height()

	// 1. Засев: граница всегда скала
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := domain.Position{X: x, Y: y}
			if isEdge(grid, p) || rng.Intn(100) < opt.FillPercent {
				grid.Set(p, domain.SolidRock)
			} else {
				grid.Set(p, domain.OpenGround)
			}
		}
	}

	// 2. Сглаживание (двойная буферизация)
	cur, buf := grid, grid.Clone()
	for s := 0; s < opt.Steps; s++ {
		caStep(cur, buf, opt.Birth, opt.Survive)
		cur, buf = buf, cur
	}
	if cur != grid {
		copyTerrain(grid, cur)
	}

	// 3. Связность
	carved := connectCaveRegions(grid)
	logger.Get().WithField("corridors", carved).Debug("Cave regions connected")
}

// caStep - одна итерация автомата из src в dst. Соседи за картой считаются стенами.
func caStep(src, dst *domain.TerrainGrid, birth, survive int) {
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			p := domain.Position{X: x, Y: y}
			if isEdge(src, p) {
				dst.Set(p, domain.SolidRock)
				continue
			}

			walls := countWallNeighbors(src, p)
			var wall bool
			if src.At(p) == domain.SolidRock {
				wall = walls >= survive
			} else {
				wall = walls >= birth
			}

			if wall {
				dst.Set(p, domain.SolidRock)
			} else {
				dst.Set(p, domain.OpenGround)
			}
		}
	}
}

func countWallNeighbors(grid *domain.TerrainGrid, p domain.Position) int {
	n := 0
	for _, d := range domain.Directions8 {
		// At за картой возвращает SolidRock
		if grid.At(p.Add(d)) == domain.SolidRock {
			n++
		}
	}
	return n
}

func isEdge(grid *domain.TerrainGrid, p domain.Position) bool {
	return p.X == 0 || p.Y == 0 || p.X == grid.Width()-1 || p.Y == grid.Height()-1
}

func copyTerrain(dst, src *domain.TerrainGrid) {
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			p := domain.Position{X: x, Y: y}
			dst.Set(p, src.At(p))
		}
	}
}

// connectCaveRegions соединяет 4-связные компоненты с самой большой, пока компонента не останется одна.
// После каждого коридора разметка строится заново. Возвращает число прорытых коридоров.
func connectCaveRegions(grid *domain.TerrainGrid) int {
	open := func(p domain.Position) bool { return grid.At(p) == domain.OpenGround }

	carved := 0
	// Каждый коридор сливает минимум две компоненты, так что цикл конечен
	for {
		regions := labelRegions(grid.Width(), grid.Height(), open, domain.Directions4[:])
		if regions.Count() <= 1 {
			return carved
		}

		a, b := regions.nearestToMain()
		carveTunnel(grid, a, b, func(p domain.Position) bool { return !open(p) })
		carved++
	}
}

// carveTunnel - L-коридор сквозь скалу. Порядок плеч зависит от взаимного положения точек.
// solid решает, какие клетки нужно открыть; возвращает открытые клетки.
func carveTunnel(grid *domain.TerrainGrid, a, b domain.Position, solid func(domain.Position) bool) []domain.Position {
	if a == b {
		return nil
	}
	var cells []domain.Position
	set := func(p domain.Position) {
		if solid(p) {
			grid.Set(p, domain.OpenGround)
			cells = append(cells, p)
		}
	}

	if a.X <= b.X {
		for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
			set(domain.Position{X: x, Y: a.Y})
		}
		for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
			set(domain.Position{X: b.X, Y: y})
		}
	} else {
		for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
			set(domain.Position{X: a.X, Y: y})
		}
		for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
			set(domain.Position{X: x, Y: b.Y})
		}
	}
	return cells
}
