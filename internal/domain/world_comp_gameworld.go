package domain

import (
	"errors"
	"strings"
)

func (w *GameWorld) Width() int  { return w.Terrain.Width() }
func (w *GameWorld) Height() int { return w.Terrain.Height() }

func (w *GameWorld) InBounds(p Position) bool { return w.Terrain.InBounds(p) }

func (w *GameWorld) GetIndex(x, y int) int {
	return y*w.Terrain.Width() + x
}

// BlocksMovement - местность ИЛИ фича (закрытая дверь) блокирует движение.
func (w *GameWorld) BlocksMovement(p Position) bool {
	return w.Terrain.BlocksMovement(p) || w.Features.BlocksMovement(p)
}

// BlocksSight - местность ИЛИ фича блокирует взгляд.
func (w *GameWorld) BlocksSight(p Position) bool {
	return w.Terrain.BlocksSight(p) || w.Features.BlocksSight(p)
}

// GetEntitiesAt возвращает список сущностей в конкретной клетке
func (w *GameWorld) GetEntitiesAt(p Position) []*Entity {
	if !w.InBounds(p) {
		return nil
	}
	return w.SpatialHash[w.GetIndex(p.X, p.Y)]
}

// BlockingEntityAt - живая сущность в клетке (для коллизий).
func (w *GameWorld) BlockingEntityAt(p Position) *Entity {
	for _, e := range w.GetEntitiesAt(p) {
		if !e.IsDead {
			return e
		}
	}
	return nil
}

// GetEntity ищет сущность по ID
func (w *GameWorld) GetEntity(id EntityID) *Entity {
	return w.EntityRegistry[id]
}

// AddEntity регистрирует сущность и кладет ее в индекс
func (w *GameWorld) AddEntity(e *Entity) {
	w.EntityRegistry[e.ID] = e
	idx := w.GetIndex(e.Pos.X, e.Pos.Y)
	w.SpatialHash[idx] = append(w.SpatialHash[idx], e)
}

// RemoveEntity удаляет сущность из индекса и реестра (смерть, переход на другой уровень)
func (w *GameWorld) RemoveEntity(e *Entity) {
	delete(w.EntityRegistry, e.ID)
	w.unindex(e)
}

func (w *GameWorld) unindex(e *Entity) {
	idx := w.GetIndex(e.Pos.X, e.Pos.Y)
	entities := w.SpatialHash[idx]

	for i, other := range entities {
		if other.ID == e.ID {
			// Swap with last, порядок не важен
			lastIdx := len(entities) - 1
			entities[i] = entities[lastIdx]
			entities[lastIdx] = nil
			if lastIdx == 0 {
				delete(w.SpatialHash, idx)
			} else {
				w.SpatialHash[idx] = entities[:lastIdx]
			}
			return
		}
	}
}

// UpdateEntityPos перемещает сущность в индексе
func (w *GameWorld) UpdateEntityPos(e *Entity, to Position) error {
	if !w.InBounds(to) {
		return errors.New("out of bounds")
	}

	w.unindex(e)
	e.Pos = to
	idx := w.GetIndex(to.X, to.Y)
	w.SpatialHash[idx] = append(w.SpatialHash[idx], e)
	return nil
}

// Render - ASCII-снимок уровня: сущности поверх фич поверх местности.
func (w *GameWorld) Render() string {
	var sb strings.Builder
	sb.Grow((w.Width() + 1) * w.Height())

	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			p := Position{X: x, Y: y}
			glyph := w.Terrain.At(p).Glyph()
			if f, ok := w.Features.Get(p); ok {
				glyph = f.Glyph()
			}
			if e := w.BlockingEntityAt(p); e != nil && e.Symbol != 0 {
				glyph = e.Symbol
			}
			sb.WriteByte(glyph)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
