package domain

import (
	"fmt"
	"strings"
)

// TerrainKind - базовый материал клетки.
type TerrainKind uint8

const (
	OpenGround TerrainKind = iota
	SolidRock
	ShallowLiquid
	DeepLiquid
)

var terrainNames = map[TerrainKind]string{
	OpenGround:    "OpenGround",
	SolidRock:     "SolidRock",
	ShallowLiquid: "ShallowLiquid",
	DeepLiquid:    "DeepLiquid",
}

// AllTerrainKinds перечисляет все известные виды (в порядке объявления).
func AllTerrainKinds() []TerrainKind {
	return []TerrainKind{OpenGround, SolidRock, ShallowLiquid, DeepLiquid}
}

func (k TerrainKind) String() string {
	if name, ok := terrainNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TerrainKind(%d)", uint8(k))
}

// Glyph - символ для ASCII-снимков уровня.
func (k TerrainKind) Glyph() byte {
	switch k {
	case OpenGround:
		return '.'
	case SolidRock:
		return '#'
	case ShallowLiquid:
		return '~'
	case DeepLiquid:
		return '='
	}
	return '?'
}

// ParseTerrainKind конвертирует имя из JSON-конфига в TerrainKind (без учета регистра).
func ParseTerrainKind(s string) (TerrainKind, bool) {
	for kind, name := range terrainNames {
		if strings.EqualFold(name, s) {
			return kind, true
		}
	}
	return 0, false
}
