package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"undercroft-server/pkg/logger"
)

// TileProperties описывает поведение вида местности.
type TileProperties struct {
	MovementCost    int  `json:"movement_cost"` // 100 = обычная скорость, 200 = вдвое медленнее, <0 = непроходимо
	BlocksSight     bool `json:"blocks_los"`
	DamageImmediate int  `json:"damage_immediate"` // урон при входе в клетку
	DamagePerTurn   int  `json:"damage_per_turn"`  // урон за каждый ход в клетке
}

// BlocksMovement - клетка непроходима.
func (p TileProperties) BlocksMovement() bool {
	return p.MovementCost < 0
}

// unknownTile - безопасное значение для незарегистрированных видов:
// непроходимо и непрозрачно.
var unknownTile = TileProperties{MovementCost: -1, BlocksSight: true}

// PropertyTable - таблица свойств местности. Создается явно и передается
// в TerrainGrid, глобального реестра нет.
type PropertyTable struct {
	props map[TerrainKind]TileProperties
}

// NewPropertyTable создает таблицу с захардкоженными значениями по умолчанию.
func NewPropertyTable() *PropertyTable {
	t := &PropertyTable{props: make(map[TerrainKind]TileProperties, 4)}
	t.Register(OpenGround, TileProperties{MovementCost: 100})
	t.Register(SolidRock, TileProperties{MovementCost: -1, BlocksSight: true})
	t.Register(ShallowLiquid, TileProperties{MovementCost: 200})
	// Глубокая вода: видно насквозь, но пройти нельзя (нужно плавание)
	t.Register(DeepLiquid, TileProperties{MovementCost: -1})
	return t
}

// Register задает (или перезаписывает) свойства вида.
func (t *PropertyTable) Register(kind TerrainKind, p TileProperties) {
	t.props[kind] = p
}

// Properties возвращает свойства вида; для незарегистрированного - блокирующий fallback.
func (t *PropertyTable) Properties(kind TerrainKind) TileProperties {
	if t == nil {
		return unknownTile
	}
	if p, ok := t.props[kind]; ok {
		return p
	}
	return unknownTile
}

// Has проверяет, зарегистрирован ли вид.
func (t *PropertyTable) Has(kind TerrainKind) bool {
	_, ok := t.props[kind]
	return ok
}

func (t *PropertyTable) BlocksMovement(kind TerrainKind) bool {
	return t.Properties(kind).BlocksMovement()
}

func (t *PropertyTable) BlocksSight(kind TerrainKind) bool {
	return t.Properties(kind).BlocksSight
}

// tileFile - формат файла: { "tiles": { "OpenGround": { ... }, ... } }
type tileFile struct {
	Tiles map[string]json.RawMessage `json:"tiles"`
}

// LoadJSON перезаписывает значения по умолчанию данными из r.
// Неизвестные виды пропускаются с предупреждением; при ошибке разбора таблица не меняется.
func (t *PropertyTable) LoadJSON(r io.Reader) error {
	var f tileFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("decode tile properties: %w", err)
	}
	if f.Tiles == nil {
		return fmt.Errorf("decode tile properties: missing %q key", "tiles")
	}

	log := logger.For("tile_properties")
	parsed := make(map[TerrainKind]TileProperties, len(f.Tiles))
	for name, raw := range f.Tiles {
		kind, ok := ParseTerrainKind(name)
		if !ok {
			log.WithField("tile", name).Warn("Unknown tile type in config, skipping")
			continue
		}
		// Отсутствующие поля получают блокирующие значения, как у незарегистрированного вида
		p := unknownTile
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode tile %q: %w", name, err)
		}
		parsed[kind] = p
	}

	for kind, p := range parsed {
		t.Register(kind, p)
	}
	log.WithField("count", len(parsed)).Info("Tile properties loaded")
	return nil
}

// LoadFile - LoadJSON из файла.
func (t *PropertyTable) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := t.LoadJSON(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
