package dungeon

import (
	"fmt"
	"strings"
)

// Strategy - алгоритм генерации местности. На уровень работает ровно одна.
type Strategy uint8

const (
	StrategyRooms Strategy = iota
	StrategyCaves
)

func (s Strategy) String() string {
	switch s {
	case StrategyRooms:
		return "rooms"
	case StrategyCaves:
		return "caves"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy разбирает имя стратегии (без учета регистра).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rooms":
		return StrategyRooms, nil
	case "caves":
		return StrategyCaves, nil
	}
	return 0, fmt.Errorf("unknown generation strategy %q", name)
}

// RoomOptions - параметры комнат.
type RoomOptions struct {
	MaxRooms int  `json:"max_rooms"`
	RoomMin  int  `json:"room_min"`
	RoomMax  int  `json:"room_max"`
	AddDoors bool `json:"add_doors"`
}

// CaveOptions - параметры клеточного автомата.
type CaveOptions struct {
	FillPercent int  `json:"fill_percent"` // Доля стен при засеве, 0..100
	Steps       int  `json:"steps"`
	Birth       int  `json:"birth"`   // Открытая клетка становится стеной при >= birth стен вокруг
	Survive     int  `json:"survive"` // Стена остается стеной при >= survive стен вокруг
	AddDoors    bool `json:"add_doors"`
}

// PlacementConfig - бюджеты и отступы размещения комнат.
type PlacementConfig struct {
	AttemptsMultiplier int `json:"attempts_multiplier"` // Базовое число попыток
	AttemptsPerRoom    int `json:"attempts_per_room"`
	RoomPadding        int `json:"room_padding"` // Зазор между комнатами
	EdgeMargin         int `json:"edge_margin"`
	MinRoomDimension   int `json:"min_room_dimension"`
}

// LiquidOptions - декоративные лужи мелкой воды поверх готовой местности.
type LiquidOptions struct {
	Enabled   bool    `json:"enabled"`
	Scale     float64 `json:"scale"`     // Частота шума: меньше - крупнее лужи
	Threshold float64 `json:"threshold"` // Порог нормализованного шума (0..1)
}

// LevelConfig - все ручки генерации одного уровня.
type LevelConfig struct {
	Strategy  Strategy        `json:"strategy"`
	Rooms     RoomOptions     `json:"rooms"`
	Caves     CaveOptions     `json:"caves"`
	Placement PlacementConfig `json:"placement"`
	Liquids   LiquidOptions   `json:"liquids"`

	StairsMin     int       `json:"stairs_min"`
	StairsMax     int       `json:"stairs_max"`
	StairsChances []float64 `json:"stairs_chances"` // Шансы 2-й, 3-й... лестницы

	MonsterCount     int `json:"monster_count"`
	MinSpawnDistance int `json:"min_spawn_distance"` // Манхэттен от любой лестницы

	// Retries - сколько раз перегенерировать с ослабленными параметрами, если не легла ни одна комната.
	Retries int `json:"retries"`
}

// DefaultLevelConfig - стандартное подземелье.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		Strategy: StrategyRooms,
		Rooms: RoomOptions{
			MaxRooms: 35,
			RoomMin:  5,
			RoomMax:  10,
			AddDoors: true,
		},
		Caves: CaveOptions{
			FillPercent: 52,
			Steps:       5,
			Birth:       5,
			Survive:     4,
			AddDoors:    true,
		},
		Placement: PlacementConfig{
			AttemptsMultiplier: 100,
			AttemptsPerRoom:    8,
			RoomPadding:        1,
			EdgeMargin:         2,
			MinRoomDimension:   2,
		},
		Liquids: LiquidOptions{
			Enabled:   true,
			Scale:     0.12,
			Threshold: 0.72,
		},
		StairsMin:        1,
		StairsMax:        3,
		StairsChances:    []float64{0.15, 0.05},
		MonsterCount:     20,
		MinSpawnDistance: 5,
		Retries:          3,
	}
}

// --- Пресеты ---

// TinyDungeon - маленькое тесное подземелье.
func TinyDungeon() LevelConfig {
	cfg := DefaultLevelConfig()
	cfg.Rooms.MaxRooms = 10
	cfg.Rooms.RoomMin = 3
	cfg.Rooms.RoomMax = 6
	return cfg
}

func StandardDungeon() LevelConfig {
	return DefaultLevelConfig()
}

// LargeDungeon - много крупных комнат.
func LargeDungeon() LevelConfig {
	cfg := DefaultLevelConfig()
	cfg.Rooms.MaxRooms = 50
	cfg.Rooms.RoomMin = 6
	cfg.Rooms.RoomMax = 15
	cfg.Placement.AttemptsMultiplier = 150
	return cfg
}

// DenseCaves - просторные пещеры (меньше стен при засеве).
func DenseCaves() LevelConfig {
	cfg := DefaultLevelConfig()
	cfg.Strategy = StrategyCaves
	cfg.Caves.FillPercent = 45
	cfg.Caves.Steps = 6
	cfg.Caves.Birth = 5
	cfg.Caves.Survive = 3
	return cfg
}

// TightCaves - узкие, похожие на лабиринт пещеры.
func TightCaves() LevelConfig {
	cfg := DefaultLevelConfig()
	cfg.Strategy = StrategyCaves
	cfg.Caves.FillPercent = 58
	cfg.Caves.Steps = 4
	cfg.Caves.Birth = 6
	cfg.Caves.Survive = 5
	return cfg
}

// MixedLevel - средние комнаты; пещерные параметры на случай переключения стратегии.
func MixedLevel() LevelConfig {
	cfg := DefaultLevelConfig()
	cfg.Rooms.MaxRooms = 25
	cfg.Rooms.RoomMin = 4
	cfg.Rooms.RoomMax = 8
	cfg.Caves.FillPercent = 50
	cfg.Caves.Steps = 3
	return cfg
}

// Preset ищет пресет по имени.
func Preset(name string) (LevelConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "standard":
		return StandardDungeon(), nil
	case "tiny":
		return TinyDungeon(), nil
	case "large":
		return LargeDungeon(), nil
	case "dense_caves", "densecaves":
		return DenseCaves(), nil
	case "tight_caves", "tightcaves":
		return TightCaves(), nil
	case "mixed":
		return MixedLevel(), nil
	}
	return LevelConfig{}, fmt.Errorf("unknown level preset %q", name)
}

// normalizeRooms зажимает размеры комнат под карту и ограничивает их число по площади.
func normalizeRooms(opt RoomOptions, pl PlacementConfig, width, height int) RoomOptions {
	opt.RoomMin = max(pl.MinRoomDimension, opt.RoomMin)
	opt.RoomMax = max(opt.RoomMin, opt.RoomMax)

	maxW := max(pl.EdgeMargin, width-pl.EdgeMargin)
	maxH := max(pl.EdgeMargin, height-pl.EdgeMargin)
	hardMax := max(pl.MinRoomDimension, min(maxW, maxH))
	opt.RoomMax = min(opt.RoomMax, hardMax)

	avg := (opt.RoomMin + opt.RoomMax) / 2
	avgArea := max(4, avg*avg)
	softCap := max(1, (width*height)/(avgArea+8))
	if opt.MaxRooms <= 0 {
		opt.MaxRooms = 1
	}
	opt.MaxRooms = min(opt.MaxRooms, softCap)
	return opt
}

// relaxed - параметры для повторной попытки: комнаты меньше, попыток больше.
func (c LevelConfig) relaxed() LevelConfig {
	out := c
	out.StairsChances = append([]float64(nil), c.StairsChances...)
	out.Rooms.RoomMin = max(1, c.Rooms.RoomMin-1)
	out.Rooms.RoomMax = max(out.Rooms.RoomMin, c.Rooms.RoomMax*2/3)
	out.Placement.AttemptsMultiplier = c.Placement.AttemptsMultiplier * 2
	out.Placement.EdgeMargin = max(1, c.Placement.EdgeMargin-1)
	return out
}
