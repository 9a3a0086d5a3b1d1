package engine

import (
	"fmt"
	"strconv"
	"time"

	"undercroft-server/pkg/dungeon"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят сиды всех уровней по очереди.
	Seed int64

	Width  int
	Height int

	// Preset - имя пресета генерации (см. dungeon.Preset)
	Preset string
	// Strategy - "rooms" или "caves"; пусто - как в пресете
	Strategy string
	// Monsters - число монстров на уровне; < 0 - как в пресете
	Monsters int

	// TilesPath - JSON с переопределением свойств клеток (пусто - встроенная таблица)
	TilesPath string
	// SaveDir - куда складывать бинарные снимки уровней
	SaveDir string

	Port         string
	TickInterval time.Duration
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:         time.Now().UnixNano(),
		Width:        dungeon.MapWidth,
		Height:       dungeon.MapHeight,
		Preset:       "standard",
		Monsters:     -1,
		SaveDir:      "levels",
		Port:         "8080",
		TickInterval: 200 * time.Millisecond,
	}
}

// LevelConfig собирает параметры генерации из пресета и переопределений.
func (c Config) LevelConfig() (dungeon.LevelConfig, error) {
	cfg, err := dungeon.Preset(c.Preset)
	if err != nil {
		return cfg, fmt.Errorf("level config: %w", err)
	}
	if c.Strategy != "" {
		s, err := dungeon.ParseStrategy(c.Strategy)
		if err != nil {
			return cfg, fmt.Errorf("level config: %w", err)
		}
		cfg.Strategy = s
	}
	if c.Monsters >= 0 {
		cfg.MonsterCount = c.Monsters
	}
	return cfg, nil
}

// ApplyEnv переопределяет поля из переменных окружения UD_*.
// getenv обычно os.Getenv; пустое значение ничего не меняет.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("UD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("UD_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := getenv("UD_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UD_WIDTH: %w", err)
		}
		c.Width = n
	}
	if v := getenv("UD_HEIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UD_HEIGHT: %w", err)
		}
		c.Height = n
	}
	if v := getenv("UD_MONSTERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UD_MONSTERS: %w", err)
		}
		c.Monsters = n
	}
	if v := getenv("UD_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UD_TICK: %w", err)
		}
		c.TickInterval = d
	}
	if v := getenv("UD_PRESET"); v != "" {
		c.Preset = v
	}
	if v := getenv("UD_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := getenv("UD_TILES"); v != "" {
		c.TilesPath = v
	}
	if v := getenv("UD_SAVE_DIR"); v != "" {
		c.SaveDir = v
	}
	if v := getenv("UD_PORT"); v != "" {
		c.Port = v
	}
	return nil
}
