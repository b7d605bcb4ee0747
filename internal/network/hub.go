package network

import (
	"sync"
	"sync/atomic"

	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"
)

// SubscriberID - идентификатор подписки (одно WebSocket-соединение или зритель).
type SubscriberID uint64

// Broadcaster занимается только рассылкой снимков подписчикам.
// Драйвер симуляции вызывает Broadcast после каждого тика и никогда не ждёт:
// медленный подписчик теряет снимок, но не тормозит тики.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SubscriberID -> Личный канал
	subscribers map[SubscriberID]chan api.SnapshotMessage
	nextID      SubscriberID
	buffer      int

	dropped atomic.Uint64
}

// NewBroadcaster создает хаб. buffer - размер личного канала подписчика.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broadcaster{
		subscribers: make(map[SubscriberID]chan api.SnapshotMessage),
		buffer:      buffer,
	}
}

// Subscribe создает личный канал для нового подписчика.
func (b *Broadcaster) Subscribe() (SubscriberID, <-chan api.SnapshotMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan api.SnapshotMessage, b.buffer)
	b.subscribers[id] = ch
	return id, ch
}

// Unsubscribe удаляет подписчика и закрывает его канал. Повторный вызов ничего не делает.
func (b *Broadcaster) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет снимок конкретному подписчику (Unicast).
func (b *Broadcaster) SendTo(id SubscriberID, msg api.SnapshotMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return false
	}
	return b.offer(id, ch, msg)
}

// Broadcast отправляет снимок всем.
func (b *Broadcaster) Broadcast(msg api.SnapshotMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id SubscriberID, ch chan api.SnapshotMessage, msg api.SnapshotMessage) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.dropped.Add(1)
		logger.Log.WithField("subscriber_id", id).WithField("tick", msg.Tick).Trace("Hub: channel full, snapshot dropped")
		return false
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько снимков не влезло в каналы подписчиков.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close отписывает всех.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
