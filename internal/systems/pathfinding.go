package systems

import (
	"slices"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// Blocker говорит, можно ли войти в клетку при поиске пути.
type Blocker func(p domain.Position) bool

// MovementBlocker - блокировка движения по карте (по умолчанию).
func MovementBlocker(view domain.MapView) Blocker {
	return view.BlocksMovement
}

// SightBlocker - старое поведение: непрозрачная клетка считается непроходимой.
func SightBlocker(view domain.MapView) Blocker {
	return view.BlocksSight
}

// DoorAwareBlocker считает закрытые двери проходимыми: актор откроет дверь, упершись в нее.
func DoorAwareBlocker(w *domain.GameWorld) Blocker {
	return func(p domain.Position) bool {
		if w.Terrain.BlocksMovement(p) {
			return true
		}
		f, ok := w.Features.Get(p)
		if !ok {
			return false
		}
		if _, isDoor := f.(domain.Door); isDoor {
			return false
		}
		return f.BlocksMovement()
	}
}

// PathOption настраивает PathFinder.
type PathOption func(*PathFinder)

// WithBlocker подменяет предикат проходимости.
func WithBlocker(b Blocker) PathOption {
	return func(pf *PathFinder) { pf.blocked = b }
}

// WithMaxExpansions ограничивает число раскрытых узлов (0 - без ограничения).
func WithMaxExpansions(n int) PathOption {
	return func(pf *PathFinder) { pf.maxExpansions = n }
}

// PathFinder - A* по 8 направлениям с манхэттенской эвристикой и единичной ценой шага.
// Между вызовами состояния не хранит, кроме размеров карты.
type PathFinder struct {
	width, height int
	blocked       Blocker
	maxExpansions int
}

func NewPathFinder(view domain.MapView, opts ...PathOption) *PathFinder {
	pf := &PathFinder{
		width:   view.Width(),
		height:  view.Height(),
		blocked: MovementBlocker(view),
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

type pathNode struct {
	pos domain.Position
	f   int // f = g + h
	g   int // стоимость от старта
	seq int // порядок вставки, чтобы ничьи разрешались одинаково
}

// FindPath возвращает путь start -> goal включительно.
// start == goal дает [start]; недостижимая или непроходимая цель - пустой путь.
func (pf *PathFinder) FindPath(start, goal domain.Position) []domain.Position {
	if start == goal {
		return []domain.Position{start}
	}
	if !pf.inBounds(start) || !pf.inBounds(goal) || pf.blocked(goal) {
		return nil
	}

	open := heap.New[pathNode](func(a, b pathNode) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.seq < b.seq
	})
	closed := mapset.New[domain.Position]()
	cameFrom := make(map[domain.Position]domain.Position)
	gScore := map[domain.Position]int{start: 0}

	seq := 0
	open.Push(pathNode{pos: start, f: start.Manhattan(goal), g: 0, seq: seq})

	expansions := 0
	for open.Size() > 0 {
		current, _ := open.Pop()

		if current.pos == goal {
			return reconstruct(cameFrom, start, goal)
		}

		if closed.Has(current.pos) {
			continue
		}
		closed.Put(current.pos)

		expansions++
		if pf.maxExpansions > 0 && expansions > pf.maxExpansions {
			logger.Get().WithFields(logrus.Fields{
				"component": "pathfinding",
				"start":     start,
				"goal":      goal,
			}).Debug("Expansion budget exhausted")
			return nil
		}

		// Порядок соседей фиксирован: N, NE, E, SE, S, SW, W, NW
		for _, d := range domain.Directions8 {
			next := current.pos.Add(d)
			if !pf.inBounds(next) || closed.Has(next) || pf.blocked(next) {
				continue
			}

			tentativeG := current.g + 1
			if g, seen := gScore[next]; seen && tentativeG >= g {
				continue
			}
			gScore[next] = tentativeG
			cameFrom[next] = current.pos
			seq++
			open.Push(pathNode{pos: next, f: tentativeG + next.Manhattan(goal), g: tentativeG, seq: seq})
		}
	}

	return nil
}

func (pf *PathFinder) inBounds(p domain.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < pf.width && p.Y < pf.height
}

func reconstruct(cameFrom map[domain.Position]domain.Position, start, goal domain.Position) []domain.Position {
	path := []domain.Position{goal}
	for p := goal; p != start; {
		p = cameFrom[p]
		path = append(path, p)
	}
	slices.Reverse(path)
	return path
}
