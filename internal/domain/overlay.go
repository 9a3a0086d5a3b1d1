package domain

import "sort"

// FeatureOverlay - разреженная карта позиция -> Feature. Не более одной фичи на клетку.
type FeatureOverlay struct {
	features map[Position]Feature
}

func NewFeatureOverlay() *FeatureOverlay {
	return &FeatureOverlay{features: make(map[Position]Feature)}
}

// Add ставит фичу в клетку, заменяя существующую.
func (o *FeatureOverlay) Add(p Position, f Feature) {
	o.features[p] = f
}

// Remove удаляет фичу; если ее нет - ничего не делает.
func (o *FeatureOverlay) Remove(p Position) {
	delete(o.features, p)
}

func (o *FeatureOverlay) Get(p Position) (Feature, bool) {
	f, ok := o.features[p]
	return f, ok
}

func (o *FeatureOverlay) Has(p Position) bool {
	_, ok := o.features[p]
	return ok
}

// BlocksMovement - решает фича; без фичи решает только местность (false).
func (o *FeatureOverlay) BlocksMovement(p Position) bool {
	if f, ok := o.features[p]; ok {
		return f.BlocksMovement()
	}
	return false
}

func (o *FeatureOverlay) BlocksSight(p Position) bool {
	if f, ok := o.features[p]; ok {
		return f.BlocksSight()
	}
	return false
}

// Positions возвращает все занятые позиции в row-major порядке.
func (o *FeatureOverlay) Positions() []Position {
	out := make([]Position, 0, len(o.features))
	for p := range o.features {
		out = append(out, p)
	}
	sortRowMajor(out)
	return out
}

// StairsPositions - позиции всех лестниц (row-major).
func (o *FeatureOverlay) StairsPositions() []Position {
	var out []Position
	for p, f := range o.features {
		if _, ok := f.(Stairs); ok {
			out = append(out, p)
		}
	}
	sortRowMajor(out)
	return out
}

func (o *FeatureOverlay) Len() int { return len(o.features) }

func (o *FeatureOverlay) Clear() {
	clear(o.features)
}

// --- Мутаторы для обработчиков действий ---

// SetDoorState меняет состояние двери. false, если в клетке нет двери.
func (o *FeatureOverlay) SetDoorState(p Position, state DoorState) bool {
	door, ok := o.features[p].(Door)
	if !ok {
		return false
	}
	door.State = state
	o.features[p] = door
	return true
}

func (o *FeatureOverlay) OpenDoor(p Position) bool {
	return o.SetDoorState(p, DoorOpen)
}

func (o *FeatureOverlay) CloseDoor(p Position) bool {
	return o.SetDoorState(p, DoorClosed)
}

// ToggleDoor переключает дверь и возвращает новое состояние.
func (o *FeatureOverlay) ToggleDoor(p Position) (DoorState, bool) {
	door, ok := o.features[p].(Door)
	if !ok {
		return 0, false
	}
	if door.State == DoorOpen {
		door.State = DoorClosed
	} else {
		door.State = DoorOpen
	}
	o.features[p] = door
	return door.State, true
}

func sortRowMajor(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}
