package domain

import (
	"fmt"
	"math"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Directions8 - смещения соседей в фиксированном порядке N, NE, E, SE, S, SW, W, NW.
// От этого порядка зависит детерминизм A* при равных стоимостях.
var Directions8 = [8]Position{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// Directions4 - ортогональные соседи (для 4-связных заливок).
var Directions4 = [4]Position{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DistanceTo возвращает точное расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(float64(p.DistanceSquaredTo(other)))
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Manhattan - |dx| + |dy|. Эвристика A* и дистанция спавна от лестниц.
func (p Position) Manhattan(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// Chebyshev - max(|dx|, |dy|). Радиус обзора.
func (p Position) Chebyshev(other Position) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	return p.Chebyshev(other) == 1
}

// Shift возвращает новую позицию со смещением, не меняя текущую.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Add складывает две позиции (удобно с Directions8).
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// DirectionTo возвращает шаг (-1/0/1) по каждой оси в сторону цели.
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
