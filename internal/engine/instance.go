package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"undercroft-server/internal/domain"
	"undercroft-server/internal/infrastructure/storage"
	"undercroft-server/internal/systems"
	"undercroft-server/pkg/api"
	"undercroft-server/pkg/dungeon"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// ErrNoActors - в очереди ходов никого нет.
var ErrNoActors = errors.New("engine: no actors scheduled")

// Instance представляет собой один запущенный уровень (игровую зону):
// карта, акторы, очередь ходов и то, что видит игрок.
// Сервер читает состояние из своих горутин, пока Run шагает симуляцию, поэтому все под mu.
type Instance struct {
	mu sync.RWMutex

	cfg       Config
	levelCfg  dungeon.LevelConfig
	generator *dungeon.Generator
	rng       *rand.Rand // Локальный генератор (монстры)

	Level     *dungeon.Level
	Player    *domain.Entity
	Entities  []*domain.Entity // Игрок + монстры текущего уровня
	Scheduler *TurnScheduler

	FOV        *systems.VisibilityField
	Discovered mapset.Set[domain.Position] // Исследованные клетки текущего уровня

	CurrentTick int            // Сколько ходов сделано с запуска
	Logs        []api.LogEntry // Последние записи журнала
}

// NewInstance генерирует первый уровень и расставляет акторов. props может быть nil.
func NewInstance(cfg Config, props *domain.PropertyTable) (*Instance, error) {
	levelCfg, err := cfg.LevelConfig()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	i := &Instance{
		cfg:       cfg,
		levelCfg:  levelCfg,
		generator: dungeon.NewGenerator(rng, props),
		rng:       rand.New(rand.NewSource(cfg.Seed ^ 0x5eed)),
		Player:    newPlayer(),
		Scheduler: NewTurnScheduler(),
	}

	if err := i.enterLevel(1); err != nil {
		return nil, err
	}
	return i, nil
}

// enterLevel генерирует уровень depth и переносит туда игрока.
func (i *Instance) enterLevel(depth int) error {
	level, err := i.generator.Generate(i.cfg.Width, i.cfg.Height, depth, i.levelCfg)
	if err != nil {
		return fmt.Errorf("enter level %d: %w", depth, err)
	}
	i.install(level)
	return nil
}

// install делает level текущим: новые монстры, чистая очередь, пустая память карты.
func (i *Instance) install(level *dungeon.Level) {
	monsters := populateLevel(level, i.Player, i.rng)

	i.Level = level
	i.Entities = append([]*domain.Entity{i.Player}, monsters...)

	i.Scheduler.Clear()
	for _, e := range i.Entities {
		i.Scheduler.Add(e)
	}

	i.FOV = systems.NewVisibilityField(level.World)
	i.Discovered = mapset.New[domain.Position]()
	i.refreshVision()

	i.AddLog(fmt.Sprintf("Глубина %d: %d монстров, лестниц %d", level.Depth, len(monsters), len(level.Stairs)), LogTypeLevel)
}

// refreshVision пересчитывает поле зрения игрока и пополняет исследованные клетки.
func (i *Instance) refreshVision() {
	i.FOV.Compute(i.Player.Pos, i.Player.Vision())
	i.FOV.ForEachVisible(func(p domain.Position) {
		i.Discovered.Put(p)
	})
}

// Step выполняет ровно один ход: актор с наибольшей энергией решает, действует и платит.
// Возвращает ID сходившего актора.
func (i *Instance) Step() (domain.EntityID, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	actor := i.Scheduler.NextActor()
	if actor == nil {
		return domain.NilEntityID, ErrNoActors
	}
	e, ok := actor.(*domain.Entity)
	if !ok {
		return domain.NilEntityID, fmt.Errorf("engine: unexpected actor type %T", actor)
	}

	decision := i.decide(e)
	cost := i.perform(e, decision)
	i.Scheduler.ProcessTurnWithCost(cost)
	i.CurrentTick++

	logger.Get().WithFields(logrus.Fields{
		"component": "instance",
		"tick":      i.CurrentTick,
		"actor":     e.Name,
		"action":    decision.Action.String(),
		"cost":      cost,
	}).Debug("Turn done")

	if e.IsPlayer() {
		if i.onStairsDown(e.Pos) {
			i.AddLog(fmt.Sprintf("%s спускается по лестнице", e.Name), LogTypeLevel)
			if err := i.enterLevel(i.Level.Depth + 1); err != nil {
				return e.ID, err
			}
		} else {
			i.refreshVision()
		}
	}

	return e.ID, nil
}

// decide: игрок идет к ближайшей лестнице, монстры преследуют игрока.
func (i *Instance) decide(e *domain.Entity) systems.Decision {
	if e.IsPlayer() {
		return systems.ComputeExplorerAction(e, i.Level.Stairs, i.Level.World)
	}
	return systems.ComputeNPCAction(e, i.Player, i.Level.World)
}

// perform применяет решение к миру и возвращает цену хода в энергии.
func (i *Instance) perform(e *domain.Entity, d systems.Decision) int {
	if d.Action != systems.ActionMove {
		return domain.EnergyCostWait
	}

	world := i.Level.World
	res := systems.CalculateMove(e, d.Dx, d.Dy, world)

	switch {
	case res.HasMoved:
		if err := world.UpdateEntityPos(e, res.Target); err != nil {
			return domain.EnergyCostWait
		}
		return moveCost(res.Cost)

	case res.Door != nil:
		// Упираясь в закрытую дверь, актор ее открывает
		if world.Features.OpenDoor(*res.Door) {
			i.AddLog(fmt.Sprintf("%s открывает дверь %v", e.Name, *res.Door), LogTypeDoor)
		}
		return domain.EnergyCostInteract

	case res.BlockedBy != nil && e.IsPlayer():
		// Игрок меняется местами с тем, кто стоит на пути, иначе узкий коридор запирается навсегда
		other := res.BlockedBy
		from := e.Pos
		if err := world.UpdateEntityPos(other, from); err != nil {
			return domain.EnergyCostWait
		}
		if err := world.UpdateEntityPos(e, res.Target); err != nil {
			return domain.EnergyCostWait
		}
		return domain.EnergyCostMove
	}

	return domain.EnergyCostWait
}

// moveCost масштабирует цену шага по стоимости клетки (100 - обычный пол).
func moveCost(tileCost int) int {
	if tileCost <= 0 {
		return domain.EnergyCostMove
	}
	return domain.EnergyCostMove * tileCost / 100
}

func (i *Instance) onStairsDown(p domain.Position) bool {
	f, ok := i.Level.World.Features.Get(p)
	if !ok {
		return false
	}
	s, isStairs := f.(domain.Stairs)
	return isStairs && s.Direction == domain.StairsDown
}

// Run шагает симуляцию раз в interval, пока не отменят ctx.
// publish (может быть nil) получает снимок после каждого хода.
func (i *Instance) Run(ctx context.Context, interval time.Duration, publish func(Snapshot)) error {
	runLogger := logger.Get().WithFields(logrus.Fields{
		"component": "instance",
		"seed":      i.cfg.Seed,
		"interval":  interval.String(),
	})
	runLogger.Info("Instance loop started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			runLogger.Info("Instance loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := i.Step(); err != nil {
				runLogger.WithError(err).Error("Step failed")
				return err
			}
			if publish != nil {
				publish(i.Snapshot())
			}
		}
	}
}

// Snapshot - состояние для зрителей и отладки.
type Snapshot struct {
	Tick       int             `json:"tick"`
	Depth      int             `json:"depth"`
	Seed       int64           `json:"seed"`
	Strategy   string          `json:"strategy"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Map        []string        `json:"map"`      // Полная карта с акторами
	Explored   []string        `json:"explored"` // Только исследованное игроком, остальное - пробелы
	Visible    int             `json:"visible"`
	Discovered int             `json:"discovered"`
	Entities   []domain.Entity `json:"entities"`
	Logs       []api.LogEntry  `json:"logs"`
}

func (i *Instance) Snapshot() Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()

	world := i.Level.World
	rows := strings.Split(strings.TrimSuffix(world.Render(), "\n"), "\n")

	explored := make([]string, len(rows))
	for y, row := range rows {
		b := []byte(row)
		for x := range b {
			if !i.Discovered.Has(domain.Position{X: x, Y: y}) {
				b[x] = ' '
			}
		}
		explored[y] = string(b)
	}

	entities := make([]domain.Entity, 0, len(i.Entities))
	for _, e := range i.Entities {
		entities = append(entities, *e)
	}

	return Snapshot{
		Tick:       i.CurrentTick,
		Depth:      i.Level.Depth,
		Seed:       i.Level.Seed,
		Strategy:   i.Level.Strategy.String(),
		Width:      world.Width(),
		Height:     world.Height(),
		Map:        rows,
		Explored:   explored,
		Visible:    i.FOV.VisibleCount(),
		Discovered: i.Discovered.Size(),
		Entities:   entities,
		Logs:       append([]api.LogEntry(nil), i.Logs...),
	}
}

// QueueDump - снимок очереди ходов.
func (i *Instance) QueueDump() []map[string]interface{} {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.Scheduler.DebugDump()
}

// Depth - глубина текущего уровня.
func (i *Instance) Depth() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.Level.Depth
}

func (i *Instance) levelSnapshot() storage.LevelSnapshot {
	return storage.LevelSnapshot{
		Seed:     i.Level.Seed,
		Depth:    i.Level.Depth,
		Terrain:  i.Level.World.Terrain,
		Features: i.Level.World.Features,
	}
}

// WriteLevel пишет бинарный снимок текущего уровня.
func (i *Instance) WriteLevel(w io.Writer) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return storage.WriteLevel(w, i.levelSnapshot())
}

// SaveLevel сохраняет текущий уровень в хранилище и возвращает путь к файлу.
func (i *Instance) SaveLevel(store *storage.LevelStore) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return store.Save(i.levelSnapshot())
}
