package systems

import (
	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ActionKind - что актор решил сделать в свой ход.
type ActionKind uint8

const (
	ActionWait ActionKind = iota
	ActionMove
)

func (k ActionKind) String() string {
	if k == ActionMove {
		return "MOVE"
	}
	return "WAIT"
}

// Decision - решение ИИ. Dx/Dy имеют смысл только для ActionMove.
type Decision struct {
	Action ActionKind
	Dx, Dy int
}

var waitDecision = Decision{Action: ActionWait}

// ComputeNPCAction решает, что делать монстру: преследовать видимую цель
// в пределах агро-радиуса или ждать. В соседней с целью клетке монстр ждет.
func ComputeNPCAction(npc, target *domain.Entity, w *domain.GameWorld) Decision {
	aiLogger := logger.Get().WithFields(logrus.Fields{
		"component": "ai_system",
		"npc":       npc.Name,
		"npc_pos":   npc.Pos,
	})

	if npc.IsDead || target == nil || target.IsDead {
		return waitDecision
	}

	dist := npc.Pos.Chebyshev(target.Pos)
	if dist <= 1 {
		aiLogger.Debug("Target adjacent. Action: WAIT")
		return waitDecision
	}
	if dist > domain.AggroRadius {
		return waitDecision
	}
	if !HasLineOfSight(w, npc.Pos, target.Pos) {
		aiLogger.Debug("Target not visible. Action: WAIT")
		return waitDecision
	}

	pf := NewPathFinder(w, WithBlocker(DoorAwareBlocker(w)), WithMaxExpansions(maxChaseExpansions))
	if dx, dy, ok := StepToward(pf, npc.Pos, target.Pos); ok {
		aiLogger.WithFields(logrus.Fields{"dx": dx, "dy": dy}).Debug("Path found. Action: MOVE")
		return Decision{Action: ActionMove, Dx: dx, Dy: dy}
	}

	// Пути нет (например, уперлись в бюджет) - жадный шаг со скольжением
	dx, dy := calculateSmartMove(npc, target, w)
	if dx == 0 && dy == 0 {
		aiLogger.Debug("Path is blocked. Action: WAIT")
		return waitDecision
	}
	return Decision{Action: ActionMove, Dx: dx, Dy: dy}
}

// ComputeExplorerAction ведет актора к ближайшей (по длине пути) из целей.
// Используется автопилотом игрока, который идет к лестнице.
func ComputeExplorerAction(e *domain.Entity, goals []domain.Position, w *domain.GameWorld) Decision {
	pf := NewPathFinder(w, WithBlocker(DoorAwareBlocker(w)))

	var best []domain.Position
	for _, g := range goals {
		path := pf.FindPath(e.Pos, g)
		if len(path) < 2 {
			continue
		}
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	if best == nil {
		return waitDecision
	}

	next := best[1]
	return Decision{Action: ActionMove, Dx: next.X - e.Pos.X, Dy: next.Y - e.Pos.Y}
}

// StepToward - первый шаг пути from -> goal.
func StepToward(pf *PathFinder, from, goal domain.Position) (dx, dy int, ok bool) {
	path := pf.FindPath(from, goal)
	if len(path) < 2 {
		return 0, 0, false
	}
	next := path[1]
	return next.X - from.X, next.Y - from.Y, true
}

const maxChaseExpansions = 4096

// Внутренние утилиты (приватные для пакета systems)

func calculateSmartMove(npc, target *domain.Entity, w *domain.GameWorld) (int, int) {
	dxRaw := target.Pos.X - npc.Pos.X
	dyRaw := target.Pos.Y - npc.Pos.Y

	stepX := sign(dxRaw)
	stepY := sign(dyRaw)

	// Попытка 1: Идеальный путь
	if checkMove(npc, stepX, stepY, w) {
		return stepX, stepY
	}

	// Попытка 2: Smart Sliding (выбор приоритетной оси)
	if abs(dxRaw) > abs(dyRaw) {
		if stepX != 0 && checkMove(npc, stepX, 0, w) {
			return stepX, 0
		}
		if stepY != 0 && checkMove(npc, 0, stepY, w) {
			return 0, stepY
		}
	} else {
		if stepY != 0 && checkMove(npc, 0, stepY, w) {
			return 0, stepY
		}
		if stepX != 0 && checkMove(npc, stepX, 0, w) {
			return stepX, 0
		}
	}

	return 0, 0 // Тупик
}

func checkMove(e *domain.Entity, dx, dy int, w *domain.GameWorld) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	res := CalculateMove(e, dx, dy, w)
	return res.HasMoved || res.Door != nil
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
