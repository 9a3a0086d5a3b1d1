package domain

// EntityKind - тип сущности, упакован в EntityID.
type EntityKind uint8

const (
	EntityKindUnknown EntityKind = iota
	EntityKindPlayer
	EntityKindMonster
)

func (k EntityKind) String() string {
	switch k {
	case EntityKindPlayer:
		return "PLAYER"
	case EntityKindMonster:
		return "MONSTER"
	}
	return "UNKNOWN"
}

// Энергия планировщика. Действие доступно при Energy >= ActionThreshold,
// стандартное действие списывает ActionCost.
const (
	DefaultSpeed    = 100
	ActionThreshold = 100
	ActionCost      = 100
)

// Стоимость действий в энергии
const (
	EnergyCostMove     = 100
	EnergyCostWait     = 50
	EnergyCostInteract = 50
)

// Параметры восприятия
const (
	VisionRadius = 8
	AggroRadius  = 10
)
