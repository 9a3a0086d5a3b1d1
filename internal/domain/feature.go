package domain

import "fmt"

// Feature - интерактивный объект поверх местности. Закрытый набор вариантов:
// Door и Stairs. Новый вариант добавляется здесь и в storage.
type Feature interface {
	BlocksMovement() bool
	BlocksSight() bool
	Glyph() byte
	Interactable() bool

	isFeature()
}

// DoorMaterial - материал двери.
type DoorMaterial uint8

const (
	DoorWood DoorMaterial = iota
	DoorIron
	DoorStone
)

func (m DoorMaterial) String() string {
	switch m {
	case DoorWood:
		return "wood"
	case DoorIron:
		return "iron"
	case DoorStone:
		return "stone"
	}
	return fmt.Sprintf("DoorMaterial(%d)", uint8(m))
}

// DoorState - состояние двери. Locked появится вместе с ключами.
type DoorState uint8

const (
	DoorOpen DoorState = iota
	DoorClosed
)

func (s DoorState) String() string {
	if s == DoorOpen {
		return "open"
	}
	return "closed"
}

// Door блокирует движение и взгляд только в закрытом состоянии.
type Door struct {
	Material DoorMaterial `json:"material"`
	State    DoorState    `json:"state"`
}

func (d Door) BlocksMovement() bool { return d.State == DoorClosed }
func (d Door) BlocksSight() bool    { return d.State == DoorClosed }
func (d Door) Interactable() bool   { return true }

func (d Door) Glyph() byte {
	if d.State == DoorOpen {
		return '\''
	}
	return '+'
}

func (Door) isFeature() {}

// StairsDirection - куда ведет лестница.
type StairsDirection uint8

const (
	StairsDown StairsDirection = iota
	StairsUp
)

func (d StairsDirection) String() string {
	if d == StairsDown {
		return "down"
	}
	return "up"
}

// Stairs - переход между уровнями. Никогда не блокирует.
type Stairs struct {
	Direction   StairsDirection `json:"direction"`
	TargetDepth int             `json:"targetDepth"`
}

func (Stairs) BlocksMovement() bool { return false }
func (Stairs) BlocksSight() bool    { return false }
func (Stairs) Interactable() bool   { return true }

func (s Stairs) Glyph() byte {
	if s.Direction == StairsDown {
		return '>'
	}
	return '<'
}

func (Stairs) isFeature() {}

// FeatureName - короткое имя варианта для логов и JSON.
func FeatureName(f Feature) string {
	switch v := f.(type) {
	case Door:
		return "door:" + v.Material.String() + ":" + v.State.String()
	case Stairs:
		return fmt.Sprintf("stairs:%s:%d", v.Direction, v.TargetDepth)
	}
	return "unknown"
}
