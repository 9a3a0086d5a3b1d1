package domain

// Entity - актор уровня: игрок или монстр.
// Планировщик держит на него только ссылку и не управляет временем жизни.
type Entity struct {
	ID     EntityID   `json:"id"`
	Kind   EntityKind `json:"kind"`
	Name   string     `json:"name"`
	Symbol byte       `json:"symbol"`
	Pos    Position   `json:"pos"`

	// MoveSpeed - прирост энергии за тик планировщика. 0 означает DefaultSpeed.
	MoveSpeed    int  `json:"speed"`
	VisionRadius int  `json:"visionRadius"`
	IsDead       bool `json:"isDead"`
}

// ActorID реализует engine.Actor.
func (e *Entity) ActorID() EntityID { return e.ID }

// Speed реализует engine.Actor.
func (e *Entity) Speed() int {
	if e.MoveSpeed <= 0 {
		return DefaultSpeed
	}
	return e.MoveSpeed
}

// Vision возвращает радиус обзора (по умолчанию VisionRadius).
func (e *Entity) Vision() int {
	if e.VisionRadius <= 0 {
		return VisionRadius
	}
	return e.VisionRadius
}

func (e *Entity) IsPlayer() bool { return e.Kind == EntityKindPlayer }
