package dungeon

import (
	"math"

	"undercroft-server/internal/domain"

	"github.com/zyedidia/generic/mapset"
)

const noRegion = -1

// regionMap - разметка связных компонент проходимых клеток.
type regionMap struct {
	width  int
	labels []int
	sizes  []int
}

// labelRegions размечает компоненты обходом в ширину в row-major порядке.
// dirs задает связность (Directions4 или Directions8).
func labelRegions(width, height int, passable func(domain.Position) bool, dirs []domain.Position) *regionMap {
	rm := &regionMap{width: width, labels: make([]int, width*height)}
	for i := range rm.labels {
		rm.labels[i] = noRegion
	}

	queue := make([]domain.Position, 0, 64)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			start := domain.Position{X: x, Y: y}
			if rm.labels[y*width+x] != noRegion || !passable(start) {
				continue
			}

			id := len(rm.sizes)
			rm.sizes = append(rm.sizes, 0)
			rm.labels[y*width+x] = id
			queue = append(queue[:0], start)

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				rm.sizes[id]++

				for _, d := range dirs {
					n := p.Add(d)
					if n.X < 0 || n.Y < 0 || n.X >= width || n.Y >= height {
						continue
					}
					idx := n.Y*width + n.X
					if rm.labels[idx] != noRegion || !passable(n) {
						continue
					}
					rm.labels[idx] = id
					queue = append(queue, n)
				}
			}
		}
	}
	return rm
}

func (rm *regionMap) Count() int { return len(rm.sizes) }

// Main - самая большая компонента (при равенстве - с меньшим номером).
func (rm *regionMap) Main() int {
	best := noRegion
	for id, size := range rm.sizes {
		if best == noRegion || size > rm.sizes[best] {
			best = id
		}
	}
	return best
}

func (rm *regionMap) Label(p domain.Position) int {
	return rm.labels[p.Y*rm.width+p.X]
}

func (rm *regionMap) cells(id int) []domain.Position {
	out := make([]domain.Position, 0, rm.sizes[id])
	for idx, l := range rm.labels {
		if l == id {
			out = append(out, domain.Position{X: idx % rm.width, Y: idx / rm.width})
		}
	}
	return out
}

// nearestToMain выбирает первую (по номеру) неглавную компоненту и ищет пару ближайших
// по Манхэттену клеток: a - в этой компоненте, b - в главной.
func (rm *regionMap) nearestToMain() (a, b domain.Position) {
	main := rm.Main()
	other := noRegion
	for id := range rm.sizes {
		if id != main {
			other = id
			break
		}
	}
	if other == noRegion {
		return a, b
	}

	mainCells := rm.cells(main)
	best := math.MaxInt
	for _, p := range rm.cells(other) {
		for _, q := range mainCells {
			if d := p.Manhattan(q); d < best {
				best, a, b = d, p, q
			}
		}
	}
	return a, b
}

// reachableFrom - все клетки, достижимые из start по 8 направлениям.
func reachableFrom(start domain.Position, width, height int, passable func(domain.Position) bool) mapset.Set[domain.Position] {
	visited := mapset.New[domain.Position]()
	if !passable(start) {
		return visited
	}

	visited.Put(start)
	stack := []domain.Position{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range domain.Directions8 {
			n := p.Add(d)
			if n.X < 0 || n.Y < 0 || n.X >= width || n.Y >= height {
				continue
			}
			if visited.Has(n) || !passable(n) {
				continue
			}
			visited.Put(n)
			stack = append(stack, n)
		}
	}
	return visited
}
