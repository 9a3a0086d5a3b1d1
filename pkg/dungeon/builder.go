package dungeon

import (
	"math/rand"
	"time"

	"undercroft-server/internal/domain"
)

// Размер карты по умолчанию
const (
	MapWidth  = 60
	MapHeight = 40
)

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	depth  int
	width  int
	height int
	cfg    LevelConfig
	props  *domain.PropertyTable
	seed   *int64
	rng    *rand.Rand
}

// NewLevel создает новый builder для уровня. При rng == nil сид берется из времени.
func NewLevel(depth int, rng *rand.Rand) *LevelBuilder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LevelBuilder{
		depth:  depth,
		width:  MapWidth,
		height: MapHeight,
		cfg:    DefaultLevelConfig(),
		rng:    rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// WithConfig заменяет весь набор параметров (например, пресетом)
func (b *LevelBuilder) WithConfig(cfg LevelConfig) *LevelBuilder {
	b.cfg = cfg
	return b
}

// WithRooms - комнатная стратегия с заданным числом и размером комнат
func (b *LevelBuilder) WithRooms(maxRooms, roomMin, roomMax int) *LevelBuilder {
	b.cfg.Strategy = StrategyRooms
	b.cfg.Rooms.MaxRooms = maxRooms
	b.cfg.Rooms.RoomMin = roomMin
	b.cfg.Rooms.RoomMax = roomMax
	return b
}

// WithCaves - пещерная стратегия
func (b *LevelBuilder) WithCaves(fillPercent, steps int) *LevelBuilder {
	b.cfg.Strategy = StrategyCaves
	b.cfg.Caves.FillPercent = fillPercent
	b.cfg.Caves.Steps = steps
	return b
}

// WithMonsters задает число точек появления монстров
func (b *LevelBuilder) WithMonsters(count int) *LevelBuilder {
	b.cfg.MonsterCount = count
	return b
}

func (b *LevelBuilder) WithoutLiquids() *LevelBuilder {
	b.cfg.Liquids.Enabled = false
	return b
}

func (b *LevelBuilder) WithProps(props *domain.PropertyTable) *LevelBuilder {
	b.props = props
	return b
}

// WithSeed фиксирует сид уровня (иначе он берется из rng)
func (b *LevelBuilder) WithSeed(seed int64) *LevelBuilder {
	b.seed = &seed
	return b
}

// Build собирает и возвращает готовый уровень
func (b *LevelBuilder) Build() (*Level, error) {
	gen := NewGenerator(b.rng, b.props)
	if b.seed != nil {
		return gen.GenerateWithSeed(*b.seed, b.width, b.height, b.depth, b.cfg)
	}
	return gen.Generate(b.width, b.height, b.depth, b.cfg)
}
