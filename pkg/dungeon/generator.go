package dungeon

import (
	"errors"
	"fmt"
	"math/rand"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoRooms - размещение не дало ни одной комнаты даже после ослабления параметров.
	ErrNoRooms = errors.New("dungeon: room placement produced no rooms")
	// ErrNoOpenGround - после генерации не осталось ни одной проходимой клетки.
	ErrNoOpenGround = errors.New("dungeon: level has no open ground")
)

// Generator собирает уровень: местность одной стратегией, затем двери, лестницы и спавны.
type Generator struct {
	rng   *rand.Rand
	props *domain.PropertyTable
}

// NewGenerator: rng - мастер-генератор, из него берется сид каждого уровня. props может быть nil.
func NewGenerator(rng *rand.Rand, props *domain.PropertyTable) *Generator {
	return &Generator{rng: rng, props: props}
}

// Generate строит новый уровень, беря для него сид из мастер-генератора.
func (g *Generator) Generate(width, height, depth int, cfg LevelConfig) (*Level, error) {
	return g.GenerateWithSeed(g.rng.Int63(), width, height, depth, cfg)
}

// GenerateWithSeed детерминированно строит уровень из сида.
func (g *Generator) GenerateWithSeed(seed int64, width, height, depth int, cfg LevelConfig) (*Level, error) {
	genLogger := logger.Get().WithFields(logrus.Fields{
		"component": "dungeon_generator",
		"depth":     depth,
		"seed":      seed,
		"strategy":  cfg.Strategy.String(),
	})

	rng := rand.New(rand.NewSource(seed))

	// 1. Все - скала
	grid, err := domain.NewTerrainGrid(width, height, domain.SolidRock, g.props)
	if err != nil {
		return nil, fmt.Errorf("generate level %dx%d: %w", width, height, err)
	}

	level := &Level{Depth: depth, Strategy: cfg.Strategy, Seed: seed}

	// 2. Ровно одна стратегия
	addDoors := cfg.Rooms.AddDoors
	switch cfg.Strategy {
	case StrategyCaves:
		addDoors = cfg.Caves.AddDoors
		generateCaves(grid, cfg.Caves, rng)
		if grid.Count(domain.OpenGround) == 0 {
			return nil, fmt.Errorf("generate caves %dx%d: %w", width, height, ErrNoOpenGround)
		}
	default:
		attemptCfg := cfg
		for try := 0; try <= cfg.Retries; try++ {
			level.Rooms = generateRooms(grid, attemptCfg.Rooms, attemptCfg.Placement, rng)
			if len(level.Rooms) > 0 {
				break
			}
			genLogger.WithField("try", try).Warn("No rooms placed, relaxing room parameters")
			attemptCfg = attemptCfg.relaxed()
		}
		if len(level.Rooms) == 0 {
			return nil, fmt.Errorf("generate rooms %dx%d: %w", width, height, ErrNoRooms)
		}
		level.RoomCount = len(level.Rooms)
	}

	// 3. Декоративные лужи (не влияют на связность)
	liquidSeed := rng.Int63()
	pools := decorateLiquids(grid, cfg.Liquids, liquidSeed)

	// 4. Двери и починка связности
	overlay := domain.NewFeatureOverlay()
	placer := NewFeaturePlacer(rng)
	if addDoors {
		placer.PlaceDoors(grid, overlay)
	}
	corridors := placer.EnsureConnected(grid, overlay, addDoors)

	// 5. Лестницы вниз
	level.Stairs = placer.PlaceStairs(grid, overlay, depth+1, cfg.StairsMin, cfg.StairsMax, cfg.StairsChances)
	if len(level.Stairs) == 0 {
		genLogger.Warn("No valid stairs position found")
	}

	// 6. Точки появления
	if spawns := placer.FindValidSpawns(grid, overlay, 1, cfg.MinSpawnDistance); len(spawns) > 0 {
		level.PlayerSpawn = spawns[0]
	} else if p, ok := FirstOpenCell(grid, overlay); ok {
		genLogger.Warn("No spawn far enough from stairs, falling back to first open cell")
		level.PlayerSpawn = p
	} else {
		return nil, fmt.Errorf("pick player spawn: %w", ErrNoOpenGround)
	}
	level.MonsterSpawns = placer.FindValidSpawns(grid, overlay, cfg.MonsterCount, cfg.MinSpawnDistance, level.PlayerSpawn)

	for _, p := range overlay.Positions() {
		if isDoor(overlay, p) {
			level.Doors = append(level.Doors, p)
		}
	}
	level.World = domain.NewGameWorld(grid, overlay, depth)

	genLogger.WithFields(logrus.Fields{
		"rooms":     level.RoomCount,
		"doors":     len(level.Doors),
		"stairs":    len(level.Stairs),
		"monsters":  len(level.MonsterSpawns),
		"pools":     pools,
		"corridors": corridors,
	}).Info("Level generated")

	return level, nil
}
