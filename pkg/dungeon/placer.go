package dungeon

import (
	"math/rand"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// FeaturePlacer расставляет двери, лестницы и ищет точки появления.
type FeaturePlacer struct {
	rng *rand.Rand
}

func NewFeaturePlacer(rng *rand.Rand) *FeaturePlacer {
	return &FeaturePlacer{rng: rng}
}

// --- Двери ---

// PlaceDoors ставит закрытую деревянную дверь в каждую стену, которая разделяет
// ровно две противоположные открытые клетки. Детерминированно, без случайности.
// Под дверью местность становится открытой: открытая дверь проходима.
func (fp *FeaturePlacer) PlaceDoors(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay) []domain.Position {
	var placed []domain.Position
	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			p := domain.Position{X: x, Y: y}
			if overlay.Has(p) || !IsValidDoorPosition(grid, overlay, p) {
				continue
			}
			overlay.Add(p, domain.Door{Material: domain.DoorWood, State: domain.DoorClosed})
			grid.Set(p, domain.OpenGround)
			placed = append(placed, p)
		}
	}
	return placed
}

// IsValidDoorPosition: стена, открыто слева и справа при закрытых сверху и снизу, или наоборот.
// Перекрестки и углы не подходят.
func IsValidDoorPosition(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, p domain.Position) bool {
	if !grid.InBounds(p) || !grid.BlocksMovement(p) {
		return false
	}
	return hasDoorPattern(grid, overlay, p)
}

// hasDoorPattern проверяет только соседей. Клетки с дверями считаются стенами.
func hasDoorPattern(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, p domain.Position) bool {
	open := func(q domain.Position) bool {
		return !grid.BlocksMovement(q) && !isDoor(overlay, q)
	}

	openL := open(p.Shift(-1, 0))
	openR := open(p.Shift(1, 0))
	openU := open(p.Shift(0, -1))
	openD := open(p.Shift(0, 1))

	horizontal := openL && openR && !openU && !openD
	vertical := openU && openD && !openL && !openR
	return horizontal || vertical
}

func isDoor(overlay *domain.FeatureOverlay, p domain.Position) bool {
	f, ok := overlay.Get(p)
	if !ok {
		return false
	}
	_, door := f.(domain.Door)
	return door
}

// --- Лестницы ---

// PlaceStairs ставит от minStairs до maxStairs лестниц вниз.
// Первые minStairs ставятся всегда (если есть кандидаты), каждая следующая - с шансом chances[i].
func (fp *FeaturePlacer) PlaceStairs(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, targetDepth, minStairs, maxStairs int, chances []float64) []domain.Position {
	minStairs = max(1, minStairs)
	maxStairs = max(minStairs, maxStairs)

	candidates := fp.StairsCandidates(grid, overlay)
	if len(candidates) == 0 {
		return nil
	}
	fp.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var placed []domain.Position
	take := func() {
		p := candidates[0]
		candidates = candidates[1:]
		overlay.Add(p, domain.Stairs{Direction: domain.StairsDown, TargetDepth: targetDepth})
		placed = append(placed, p)
	}

	for len(placed) < minStairs && len(candidates) > 0 {
		take()
	}
	for _, chance := range chances {
		if len(placed) >= maxStairs || len(candidates) == 0 {
			break
		}
		if fp.rng.Float64() < chance {
			take()
		}
	}
	return placed
}

// StairsCandidates - открытые клетки без фич с >=2 проходимыми и <=6 стенами среди 8 соседей.
func (fp *FeaturePlacer) StairsCandidates(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay) []domain.Position {
	var out []domain.Position
	for y := 2; y < grid.Height()-2; y++ {
		for x := 2; x < grid.Width()-2; x++ {
			p := domain.Position{X: x, Y: y}
			if isValidStairsPosition(grid, overlay, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func isValidStairsPosition(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, p domain.Position) bool {
	if grid.BlocksMovement(p) || overlay.Has(p) {
		return false
	}

	walkable, walls := 0, 0
	for _, d := range domain.Directions8 {
		n := p.Add(d)
		if !grid.InBounds(n) {
			continue
		}
		if grid.BlocksMovement(n) {
			walls++
		} else {
			walkable++
		}
	}
	return walkable >= 2 && walls <= 6
}

// --- Точки появления ---

// FindValidSpawns выбирает до count случайных открытых клеток без фич,
// удаленных от каждой лестницы минимум на minDistance (Манхэттен). exclude - занятые клетки.
func (fp *FeaturePlacer) FindValidSpawns(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, count, minDistance int, exclude ...domain.Position) []domain.Position {
	if count <= 0 {
		return nil
	}
	stairs := overlay.StairsPositions()

	var candidates []domain.Position
	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			p := domain.Position{X: x, Y: y}
			if grid.BlocksMovement(p) || overlay.Has(p) || containsPos(exclude, p) {
				continue
			}
			if tooClose(p, stairs, minDistance) {
				continue
			}
			candidates = append(candidates, p)
		}
	}

	fp.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:min(count, len(candidates))]
}

// FirstOpenCell - запасной вариант: первая проходимая клетка в row-major порядке.
func FirstOpenCell(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay) (domain.Position, bool) {
	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			p := domain.Position{X: x, Y: y}
			if !grid.BlocksMovement(p) && !overlay.BlocksMovement(p) {
				return p, true
			}
		}
	}
	return domain.Position{}, false
}

func tooClose(p domain.Position, stairs []domain.Position, minDistance int) bool {
	for _, s := range stairs {
		if p.Manhattan(s) < minDistance {
			return true
		}
	}
	return false
}

func containsPos(ps []domain.Position, p domain.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// --- Связность ---

// EnsureConnected проверяет, что все проходимые клетки (под дверями местность открыта)
// образуют одну 8-связную область, и прокапывает коридоры, пока это не так.
// Коридор мог сломать шаблон соседних дверей: такие двери снимаются,
// а на новых стыках ставятся новые двери. Возвращает число прорытых коридоров.
func (fp *FeaturePlacer) EnsureConnected(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay, withDoors bool) int {
	passable := func(p domain.Position) bool { return !grid.BlocksMovement(p) }

	carved := 0
	// Каждый коридор сливает минимум две области; лимит только страхует от зацикливания
	for limit := grid.Width() * grid.Height(); limit > 0; limit-- {
		regions := labelRegions(grid.Width(), grid.Height(), passable, domain.Directions8[:])
		if regions.Count() <= 1 {
			break
		}

		a, b := regions.nearestToMain()
		carveTunnel(grid, a, b, grid.BlocksMovement)
		carved++

		if withDoors {
			fp.revalidateDoors(grid, overlay)
		}
	}

	if carved > 0 {
		logger.Get().WithFields(logrus.Fields{
			"component": "feature_placer",
			"corridors": carved,
		}).Debug("Connectivity repaired")
	}
	return carved
}

// revalidateDoors снимает двери со сломанным шаблоном и ставит двери на новых стыках.
// Снятая дверь делает клетку обычным проходом, поэтому проверка повторяется до неподвижной точки.
func (fp *FeaturePlacer) revalidateDoors(grid *domain.TerrainGrid, overlay *domain.FeatureOverlay) {
	for changed := true; changed; {
		changed = false
		for _, p := range overlay.Positions() {
			if !isDoor(overlay, p) || hasDoorPattern(grid, overlay, p) {
				continue
			}
			overlay.Remove(p)
			changed = true
		}
	}
	fp.PlaceDoors(grid, overlay)
}
