package dungeon

import (
	"undercroft-server/internal/domain"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// decorateLiquids заливает мелкой водой открытые клетки, где шум выше порога.
// Глубокую воду не ставит никогда: мелкая вода проходима и не меняет связность.
func decorateLiquids(grid *domain.TerrainGrid, opt LiquidOptions, seed int64) int {
	if !opt.Enabled || opt.Scale <= 0 {
		return 0
	}

	noise := opensimplex.NewNormalized(seed)
	n := 0
	for y := 1; y < grid.Height()-1; y++ {
		for x := 1; x < grid.Width()-1; x++ {
			p := domain.Position{X: x, Y: y}
			if grid.At(p) != domain.OpenGround {
				continue
			}
			if noise.Eval2(float64(x)*opt.Scale, float64(y)*opt.Scale) > opt.Threshold {
				grid.Set(p, domain.ShallowLiquid)
				n++
			}
		}
	}
	return n
}
