package engine

import (
	"container/heap"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Actor - все, что нужно планировщику от участника очереди.
type Actor interface {
	ActorID() domain.EntityID
	Speed() int
}

// TurnScheduler - энергетическая модель инициативы.
// Каждый "тик" все акторы получают энергию по своей скорости; ходит тот, у кого ее больше,
// и платит за действие. Актор со скоростью 200 ходит примерно вдвое чаще, чем со скоростью 100.
//
// Новички стартуют с нулевой энергией, независимо от скорости и момента входа.
type TurnScheduler struct {
	queue     TurnQueue
	itemMap   map[domain.EntityID]*TurnItem
	seq       uint64
	threshold int
	cost      int
}

func NewTurnScheduler() *TurnScheduler {
	return &TurnScheduler{
		queue:     make(TurnQueue, 0),
		itemMap:   make(map[domain.EntityID]*TurnItem),
		threshold: domain.ActionThreshold,
		cost:      domain.ActionCost,
	}
}

// Add регистрирует актора. Повторная регистрация игнорируется.
func (s *TurnScheduler) Add(a Actor) {
	id := a.ActorID()
	if _, ok := s.itemMap[id]; ok {
		logger.Get().WithField("entity_id", id).Warn("Actor already scheduled")
		return
	}

	item := &TurnItem{Value: a, Energy: 0, Seq: s.seq}
	s.seq++

	heap.Push(&s.queue, item)
	s.itemMap[id] = item

	logger.Get().WithField("entity_id", id).Debug("Actor added to TurnScheduler")
}

// Remove убирает актора из очереди (смерть, уход с уровня). false, если его не было.
func (s *TurnScheduler) Remove(id domain.EntityID) bool {
	item, ok := s.itemMap[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, item.Index)
	delete(s.itemMap, id)
	return true
}

// NextActor возвращает актора, чей сейчас ход, не снимая его с очереди.
// Если никто не набрал порог, всем начисляется энергия по скорости, пока кто-нибудь не наберет.
func (s *TurnScheduler) NextActor() Actor {
	if s.queue.Len() == 0 {
		return nil
	}

	for s.queue[0].Energy < s.threshold {
		s.advance()
	}
	return s.queue[0].Value
}

// advance - один тик времени: прирост энергии всем участникам.
func (s *TurnScheduler) advance() {
	for _, item := range s.queue {
		item.Energy += effectiveSpeed(item.Value)
	}
	// Порядок мог измениться у всех сразу
	heap.Init(&s.queue)
}

// ProcessTurn - текущий актор действует по стандартной цене.
func (s *TurnScheduler) ProcessTurn() Actor {
	return s.ProcessTurnWithCost(s.cost)
}

// ProcessTurnWithCost снимает с текущего актора cost энергии и возвращает его в очередь.
// Возвращает актора, который сходил (nil для пустой очереди).
func (s *TurnScheduler) ProcessTurnWithCost(cost int) Actor {
	actor := s.NextActor()
	if actor == nil {
		return nil
	}
	if cost < 0 {
		cost = 0
	}

	item := s.queue[0]
	s.queue.Update(item, item.Energy-cost)

	logger.Get().WithFields(logrus.Fields{
		"entity_id": item.Value.ActorID(),
		"cost":      cost,
		"energy":    item.Energy,
	}).Debug("Turn processed")

	return actor
}

// Energy - текущая энергия актора.
func (s *TurnScheduler) Energy(id domain.EntityID) (int, bool) {
	item, ok := s.itemMap[id]
	if !ok {
		return 0, false
	}
	return item.Energy, true
}

func (s *TurnScheduler) Has(id domain.EntityID) bool {
	_, ok := s.itemMap[id]
	return ok
}

func (s *TurnScheduler) Len() int {
	return s.queue.Len()
}

// Clear забывает всех акторов (смена уровня).
func (s *TurnScheduler) Clear() {
	s.queue = s.queue[:0]
	clear(s.itemMap)
}

// DebugDump возвращает снимок очереди для отладки
func (s *TurnScheduler) DebugDump() []map[string]interface{} {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0, len(s.queue))

	for _, item := range s.queue {
		entry := map[string]interface{}{
			"id":     item.Value.ActorID(),
			"energy": item.Energy,
			"speed":  effectiveSpeed(item.Value),
			"index":  item.Index,
		}
		if e, ok := item.Value.(*domain.Entity); ok {
			entry["name"] = e.Name
		}
		result = append(result, entry)
	}
	return result
}

func effectiveSpeed(a Actor) int {
	if sp := a.Speed(); sp > 0 {
		return sp
	}
	return 1
}
