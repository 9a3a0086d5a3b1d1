package dungeon

import (
	"undercroft-server/internal/domain"
)

// Level - результат генерации: мир (местность + фичи) и точки появления.
type Level struct {
	World         *domain.GameWorld
	PlayerSpawn   domain.Position
	MonsterSpawns []domain.Position
	Stairs        []domain.Position
	Doors         []domain.Position

	Depth     int
	RoomCount int // Для пещер 0
	Rooms     []Rect
	Strategy  Strategy
	Seed      int64 // Сид, из которого уровень воспроизводится через GenerateWithSeed
}

func (l *Level) Width() int  { return l.World.Width() }
func (l *Level) Height() int { return l.World.Height() }

// OpenCells - все клетки, проходимые по местности (под дверями тоже).
func (l *Level) OpenCells() []domain.Position {
	var out []domain.Position
	t := l.World.Terrain
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			p := domain.Position{X: x, Y: y}
			if !t.BlocksMovement(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsConnected - достижима ли каждая открытая клетка из любой другой, если открывать двери.
func (l *Level) IsConnected() bool {
	open := l.OpenCells()
	if len(open) == 0 {
		return false
	}
	t := l.World.Terrain
	reach := reachableFrom(open[0], t.Width(), t.Height(), func(p domain.Position) bool {
		return !t.BlocksMovement(p)
	})
	return reach.Size() == len(open)
}
