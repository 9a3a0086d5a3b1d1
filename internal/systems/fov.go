package systems

import (
	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// VisibilityField - булева сетка видимых клеток размером с карту.
// Пересчитывается целиком на каждый Compute, инкрементальных обновлений нет.
type VisibilityField struct {
	view    domain.MapView
	width   int
	height  int
	visible []bool
	count   int
}

// NewVisibilityField запоминает размеры карты; view читается при каждом Compute.
func NewVisibilityField(view domain.MapView) *VisibilityField {
	w, h := view.Width(), view.Height()
	return &VisibilityField{
		view:    view,
		width:   w,
		height:  h,
		visible: make([]bool, w*h),
	}
}

// Compute сбрасывает поле и пускает луч Брезенхэма к каждой клетке в пределах
// радиуса Чебышёва. Луч помечает клетки вплоть до первой непрозрачной
// включительно: стены видны, то, что за ними - нет.
func (f *VisibilityField) Compute(origin domain.Position, radius int) {
	fovLogger := logger.Get().WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": origin,
		"radius":       radius,
	})

	clear(f.visible)
	f.count = 0

	if !f.inBounds(origin.X, origin.Y) {
		fovLogger.Warn("FOV origin is outside the map, nothing is visible")
		return
	}

	// Центр всегда виден
	f.mark(origin)

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			target := origin.Shift(dx, dy)
			if !f.inBounds(target.X, target.Y) {
				continue
			}
			f.castRay(origin, target)
		}
	}

	fovLogger.WithField("visible_tiles", f.count).Debug("FOV calculation complete.")
}

func (f *VisibilityField) castRay(origin, target domain.Position) {
	walkLine(origin, target, func(p domain.Position) bool {
		f.mark(p)
		// Клетка наблюдателя не перекрывает ему обзор
		if p != origin && f.view.BlocksSight(p) {
			return false
		}
		return true
	})
}

func (f *VisibilityField) mark(p domain.Position) {
	idx := p.Y*f.width + p.X
	if !f.visible[idx] {
		f.visible[idx] = true
		f.count++
	}
}

func (f *VisibilityField) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

// IsVisible - false для любой точки за пределами карты.
func (f *VisibilityField) IsVisible(x, y int) bool {
	if !f.inBounds(x, y) {
		return false
	}
	return f.visible[y*f.width+x]
}

// VisibleCount - число видимых клеток после последнего Compute.
func (f *VisibilityField) VisibleCount() int {
	return f.count
}

// ForEachVisible обходит видимые клетки в row-major порядке
// (например, чтобы пополнить "исследованные" клетки у вызывающего).
func (f *VisibilityField) ForEachVisible(fn func(p domain.Position)) {
	for idx, v := range f.visible {
		if v {
			fn(domain.Position{X: idx % f.width, Y: idx / f.width})
		}
	}
}
