package systems

import (
	"undercroft-server/internal/domain"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	Target    domain.Position
	HasMoved  bool
	BlockedBy *domain.Entity   // Если врезались в кого-то (для атаки)
	IsWall    bool             // Если врезались в стену
	Door      *domain.Position // Закрытая дверь на пути (ее можно открыть)
	Cost      int              // Стоимость входа в клетку по таблице свойств
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
func CalculateMove(e *domain.Entity, dx, dy int, w *domain.GameWorld) MovementResult {
	targetPos := e.Pos.Shift(dx, dy)
	res := MovementResult{Target: targetPos}

	// 1. Границы и местность
	if w.Terrain.BlocksMovement(targetPos) {
		res.IsWall = true
		return res
	}

	// 2. Фичи: закрытую дверь можно открыть, остальное блокирует как стена
	if w.Features.BlocksMovement(targetPos) {
		if f, ok := w.Features.Get(targetPos); ok {
			if _, isDoor := f.(domain.Door); isDoor {
				res.Door = &targetPos
				return res
			}
		}
		res.IsWall = true
		return res
	}

	// 3. Живые сущности
	if other := w.BlockingEntityAt(targetPos); other != nil && other.ID != e.ID {
		res.BlockedBy = other
		return res
	}

	res.Cost = w.Terrain.MovementCost(targetPos)
	res.HasMoved = true
	return res
}
