package systems

import (
	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// walkLine проходит отрезок from->to алгоритмом Брезенхэма (только целочисленная арифметика)
// и вызывает visit для каждой клетки, включая обе конечные. visit == false останавливает проход.
func walkLine(from, to domain.Position, visit func(p domain.Position) bool) {
	x0, y0 := from.X, from.Y
	dx := abs(to.X - x0)
	dy := abs(to.Y - y0)
	sx, sy := from.DirectionTo(to)
	err := dx - dy

	for {
		if !visit(domain.Position{X: x0, Y: y0}) {
			return
		}
		if x0 == to.X && y0 == to.Y {
			return
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Стартовая и конечная клетки не проверяются: стена видна сама по себе.
func HasLineOfSight(view domain.MapView, p1, p2 domain.Position) bool {
	losLogger := logger.Get().WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}

	visible := true
	walkLine(p1, p2, func(p domain.Position) bool {
		if p == p1 || p == p2 {
			return true
		}
		// За границами BlocksSight уже возвращает true
		if view.BlocksSight(p) {
			losLogger.WithField("blocking_point", p).Debug("Line is blocked")
			visible = false
			return false
		}
		return true
	})

	return visible
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
