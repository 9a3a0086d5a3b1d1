package dungeon

import (
	"math/rand"
	"testing"

	"undercroft-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRockGrid(t *testing.T, w, h int) *domain.TerrainGrid {
	t.Helper()
	g, err := domain.NewTerrainGrid(w, h, domain.SolidRock, nil)
	require.NoError(t, err)
	return g
}

func pos(x, y int) domain.Position { return domain.Position{X: x, Y: y} }

func TestNormalizeRooms(t *testing.T) {
	pl := DefaultLevelConfig().Placement

	opt := normalizeRooms(RoomOptions{MaxRooms: 35, RoomMin: 1, RoomMax: 0}, pl, 60, 40)
	assert.Equal(t, 2, opt.RoomMin, "clamped to min dimension")
	assert.Equal(t, 2, opt.RoomMax, "max never below min")

	opt = normalizeRooms(RoomOptions{MaxRooms: 35, RoomMin: 5, RoomMax: 50}, pl, 20, 12)
	assert.Equal(t, 10, opt.RoomMax, "capped by map size minus margin")

	// Мягкий предел по площади: 20*12 / (7*7 + 8) = 4
	assert.Equal(t, 4, opt.MaxRooms)

	opt = normalizeRooms(RoomOptions{MaxRooms: 0, RoomMin: 3, RoomMax: 4}, pl, 60, 40)
	assert.Equal(t, 1, opt.MaxRooms)
}

func TestGenerateRooms_PaddingAndBounds(t *testing.T) {
	cfg := DefaultLevelConfig()
	grid := newRockGrid(t, 60, 40)
	rooms := generateRooms(grid, cfg.Rooms, cfg.Placement, rand.New(rand.NewSource(3)))
	require.NotEmpty(t, rooms)

	for i, r := range rooms {
		assert.GreaterOrEqual(t, r.X, 1)
		assert.GreaterOrEqual(t, r.Y, 1)
		assert.Less(t, r.X+r.W, grid.Width())
		assert.Less(t, r.Y+r.H, grid.Height())
		if i > 0 {
			assert.LessOrEqual(t, rooms[i-1].X, r.X, "rooms sorted by x")
		}
		// Комнаты не пересекаются и не касаются
		for j, o := range rooms {
			if i == j {
				continue
			}
			touching := r.X-1 < o.X+o.W && o.X < r.X+r.W+1 && r.Y-1 < o.Y+o.H && o.Y < r.Y+r.H+1
			assert.False(t, touching, "rooms %v and %v touch", r, o)
		}
	}

	// Граница карты не тронута
	for x := 0; x < grid.Width(); x++ {
		assert.Equal(t, domain.SolidRock, grid.At(pos(x, 0)))
		assert.Equal(t, domain.SolidRock, grid.At(pos(x, grid.Height()-1)))
	}
}

func TestDigToEdge_StopsBeforeOpenCell(t *testing.T) {
	grid := newRockGrid(t, 12, 3)
	grid.Set(pos(8, 1), domain.OpenGround)

	digToEdge(grid, pos(1, 1), pos(10, 1))

	for x := 1; x <= 6; x++ {
		assert.Equal(t, domain.OpenGround, grid.At(pos(x, 1)), "x=%d", x)
	}
	assert.Equal(t, domain.SolidRock, grid.At(pos(7, 1)), "wall left for a door")
	assert.Equal(t, domain.SolidRock, grid.At(pos(9, 1)), "digging stops at the edge")
}

func TestDigToEdge_SkipsOpenStart(t *testing.T) {
	grid := newRockGrid(t, 3, 8)
	grid.Set(pos(1, 1), domain.OpenGround)

	digToEdge(grid, pos(1, 1), pos(1, 6))

	for y := 1; y <= 6; y++ {
		assert.Equal(t, domain.OpenGround, grid.At(pos(1, y)), "y=%d", y)
	}
}

func TestCaStep(t *testing.T) {
	src, err := domain.NewTerrainGrid(5, 5, domain.OpenGround, nil)
	require.NoError(t, err)
	dst := src.Clone()

	src.Set(pos(2, 2), domain.SolidRock)
	caStep(src, dst, 5, 4)

	// Одинокая стена без соседей-стен исчезает, граница становится скалой
	assert.Equal(t, domain.OpenGround, dst.At(pos(2, 2)))
	assert.Equal(t, domain.SolidRock, dst.At(pos(0, 0)))
	assert.Equal(t, domain.SolidRock, dst.At(pos(4, 2)))

	// Открытая клетка в окружении стен зарастает
	src.Fill(domain.SolidRock)
	src.Set(pos(1, 1), domain.OpenGround)
	caStep(src, dst, 5, 4)
	assert.Equal(t, domain.SolidRock, dst.At(pos(1, 1)))
}

func TestConnectCaveRegions(t *testing.T) {
	grid := newRockGrid(t, 20, 10)
	// Три изолированных кармана
	for _, r := range []Rect{{X: 1, Y: 1, W: 4, H: 4}, {X: 10, Y: 2, W: 3, H: 3}, {X: 15, Y: 6, W: 3, H: 2}} {
		carveRect(grid, r)
	}

	carved := connectCaveRegions(grid)
	assert.Equal(t, 2, carved)

	regions := labelRegions(grid.Width(), grid.Height(), func(p domain.Position) bool {
		return grid.At(p) == domain.OpenGround
	}, domain.Directions4[:])
	assert.Equal(t, 1, regions.Count())
}

func TestLabelRegions(t *testing.T) {
	grid := newRockGrid(t, 5, 3)
	grid.Set(pos(1, 1), domain.OpenGround)
	grid.Set(pos(2, 2), domain.OpenGround)
	grid.Set(pos(3, 1), domain.OpenGround)
	grid.Set(pos(4, 1), domain.OpenGround)

	open := func(p domain.Position) bool { return grid.At(p) == domain.OpenGround }

	four := labelRegions(5, 3, open, domain.Directions4[:])
	assert.Equal(t, 3, four.Count())
	assert.Equal(t, four.Label(pos(3, 1)), four.Label(pos(4, 1)))
	assert.Equal(t, four.Label(pos(3, 1)), four.Main())

	eight := labelRegions(5, 3, open, domain.Directions8[:])
	assert.Equal(t, 1, eight.Count(), "diagonals join the cells")

	a, b := four.nearestToMain()
	assert.Equal(t, pos(1, 1), a)
	assert.Equal(t, pos(3, 1), b)
}

func TestPlaceDoors(t *testing.T) {
	// #######
	// #.#...#   дверь только в (2,1): остальные стены - углы и тупики
	// ####.##
	// ####.##
	// #######
	grid := newRockGrid(t, 7, 5)
	for _, p := range []domain.Position{pos(1, 1), pos(3, 1), pos(4, 1), pos(5, 1), pos(4, 2), pos(4, 3)} {
		grid.Set(p, domain.OpenGround)
	}
	overlay := domain.NewFeatureOverlay()
	fp := NewFeaturePlacer(rand.New(rand.NewSource(1)))

	placed := fp.PlaceDoors(grid, overlay)

	assert.Equal(t, []domain.Position{pos(2, 1)}, placed)
	assert.Equal(t, domain.OpenGround, grid.At(pos(2, 1)), "door stands on open ground")
	assert.True(t, overlay.BlocksMovement(pos(2, 1)))
	assert.False(t, IsValidDoorPosition(grid, overlay, pos(2, 1)), "already a door")
}

func TestPlaceDoors_WallBetweenRooms(t *testing.T) {
	// Две комнаты через стену толщиной 1: каждая клетка стены - дверь
	grid := newRockGrid(t, 9, 6)
	carveRect(grid, Rect{X: 1, Y: 1, W: 3, H: 4})
	carveRect(grid, Rect{X: 5, Y: 1, W: 3, H: 4})
	overlay := domain.NewFeatureOverlay()

	placed := NewFeaturePlacer(rand.New(rand.NewSource(1))).PlaceDoors(grid, overlay)
	assert.Equal(t, []domain.Position{pos(4, 1), pos(4, 2), pos(4, 3), pos(4, 4)}, placed)
}

func TestPlaceStairs(t *testing.T) {
	grid := newRockGrid(t, 20, 20)
	carveRect(grid, Rect{X: 2, Y: 2, W: 16, H: 16})
	overlay := domain.NewFeatureOverlay()
	fp := NewFeaturePlacer(rand.New(rand.NewSource(8)))

	placed := fp.PlaceStairs(grid, overlay, 4, 1, 3, []float64{1, 1, 1})
	assert.Len(t, placed, 3, "capped by max")

	placed = fp.PlaceStairs(grid, overlay, 4, 2, 3, []float64{0})
	assert.Len(t, placed, 2, "minimum always placed")

	for _, p := range overlay.StairsPositions() {
		assert.True(t, p.X >= 2 && p.Y >= 2 && p.X < 18 && p.Y < 18)
	}

	empty := newRockGrid(t, 10, 10)
	assert.Empty(t, fp.PlaceStairs(empty, domain.NewFeatureOverlay(), 2, 1, 3, nil))
}

func TestStairsCandidates_RejectIsolated(t *testing.T) {
	grid := newRockGrid(t, 9, 9)
	grid.Set(pos(4, 4), domain.OpenGround)
	fp := NewFeaturePlacer(rand.New(rand.NewSource(1)))

	assert.Empty(t, fp.StairsCandidates(grid, domain.NewFeatureOverlay()), "no walkable neighbours")

	grid.Set(pos(5, 4), domain.OpenGround)
	grid.Set(pos(3, 4), domain.OpenGround)
	// Коридор: 2 проходимых, 6 стен - допустимо
	assert.Contains(t, fp.StairsCandidates(grid, domain.NewFeatureOverlay()), pos(4, 4))
}

func TestFindValidSpawns(t *testing.T) {
	grid := newRockGrid(t, 12, 3)
	carveRect(grid, Rect{X: 1, Y: 1, W: 10, H: 1})
	overlay := domain.NewFeatureOverlay()
	overlay.Add(pos(1, 1), domain.Stairs{Direction: domain.StairsDown, TargetDepth: 2})
	fp := NewFeaturePlacer(rand.New(rand.NewSource(4)))

	spawns := fp.FindValidSpawns(grid, overlay, 10, 5, pos(9, 1))
	assert.ElementsMatch(t, []domain.Position{pos(6, 1), pos(7, 1), pos(8, 1), pos(10, 1)}, spawns)

	assert.Empty(t, fp.FindValidSpawns(grid, overlay, 0, 5))

	p, ok := FirstOpenCell(grid, overlay)
	assert.True(t, ok)
	assert.Equal(t, pos(1, 1), p, "stairs do not block")
}

func TestEnsureConnected(t *testing.T) {
	grid := newRockGrid(t, 20, 10)
	carveRect(grid, Rect{X: 1, Y: 1, W: 5, H: 5})
	carveRect(grid, Rect{X: 12, Y: 3, W: 5, H: 5})
	overlay := domain.NewFeatureOverlay()
	fp := NewFeaturePlacer(rand.New(rand.NewSource(1)))

	carved := fp.EnsureConnected(grid, overlay, true)
	assert.Equal(t, 1, carved)

	level := &Level{World: domain.NewGameWorld(grid, overlay, 1)}
	assert.True(t, level.IsConnected())

	for _, p := range overlay.Positions() {
		assert.True(t, hasDoorPattern(grid, overlay, p), "door %v lost its pattern", p)
	}
}

func TestDecorateLiquids(t *testing.T) {
	grid := newRockGrid(t, 30, 20)
	carveRect(grid, Rect{X: 1, Y: 1, W: 28, H: 18})
	open := grid.Count(domain.OpenGround)

	assert.Zero(t, decorateLiquids(grid, LiquidOptions{Enabled: false, Scale: 0.1}, 1))
	assert.Zero(t, decorateLiquids(grid, LiquidOptions{Enabled: true, Scale: 0.1, Threshold: 1.5}, 1))

	n := decorateLiquids(grid, LiquidOptions{Enabled: true, Scale: 0.1, Threshold: -1}, 1)
	assert.Equal(t, open, n, "every open interior cell is flooded")
	assert.Zero(t, grid.Count(domain.DeepLiquid))
	assert.Equal(t, domain.SolidRock, grid.At(pos(0, 0)))
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"", "standard", "tiny", "large", "dense_caves", "tight_caves", "mixed"} {
		_, err := Preset(name)
		assert.NoError(t, err, name)
	}
	_, err := Preset("volcano")
	assert.Error(t, err)

	assert.Equal(t, 50, LargeDungeon().Rooms.MaxRooms)
	assert.Equal(t, 150, LargeDungeon().Placement.AttemptsMultiplier)
	assert.Equal(t, StrategyCaves, DenseCaves().Strategy)
	assert.Equal(t, 3, DenseCaves().Caves.Survive)
	assert.Equal(t, 58, TightCaves().Caves.FillPercent)

	s, err := ParseStrategy("CAVES")
	require.NoError(t, err)
	assert.Equal(t, StrategyCaves, s)
	assert.Equal(t, "rooms", StrategyRooms.String())
	_, err = ParseStrategy("maze")
	assert.Error(t, err)
}

func TestRelaxedConfig(t *testing.T) {
	cfg := DefaultLevelConfig()
	r := cfg.relaxed()

	assert.Less(t, r.Rooms.RoomMax, cfg.Rooms.RoomMax)
	assert.Greater(t, r.Placement.AttemptsMultiplier, cfg.Placement.AttemptsMultiplier)
	r.StairsChances[0] = 1
	assert.Equal(t, 0.15, cfg.StairsChances[0], "chances slice is copied")
}
