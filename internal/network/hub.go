package network

import (
	"sync"

	"undercroft-server/pkg/api"
)

const subscriberBuffer = 16

type subscriber struct {
	ch   chan api.ServerResponse
	mode string
}

// Broadcaster занимается только рассылкой сообщений подписчикам (зрителям).
// Медленный зритель теряет сообщения, симуляцию он не тормозит.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID сессии -> подписчик
	subscribers map[string]*subscriber
	dropped     int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]*subscriber),
	}
}

// Register создает личный канал для зрителя. Повторная регистрация закрывает старый канал.
func (b *Broadcaster) Register(id, mode string) <-chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old.ch)
	}

	sub := &subscriber{ch: make(chan api.ServerResponse, subscriberBuffer), mode: mode}
	b.subscribers[id] = sub
	return sub.ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// SetMode меняет режим просмотра. false, если такого зрителя нет.
func (b *Broadcaster) SetMode(id, mode string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return false
	}
	sub.mode = mode
	return true
}

// SendTo отправляет сообщение конкретному зрителю (Unicast)
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return false
	}
	return b.offer(sub, msg)
}

// Publish рассылает всем. build вызывается один раз на каждый режим просмотра,
// который есть у текущих подписчиков.
func (b *Broadcaster) Publish(build func(mode string) api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	built := make(map[string]api.ServerResponse, 2)
	for _, sub := range b.subscribers {
		msg, ok := built[sub.mode]
		if !ok {
			msg = build(sub.mode)
			built[sub.mode] = msg
		}
		b.offer(sub, msg)
	}
}

func (b *Broadcaster) offer(sub *subscriber, msg api.ServerResponse) bool {
	select {
	case sub.ch <- msg:
		return true
	default:
		b.dropped++
		return false
	}
}

func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько сообщений не влезло в буферы зрителей с запуска.
func (b *Broadcaster) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
