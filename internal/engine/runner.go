package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"hexdefense-server/internal/domain"
	"hexdefense-server/internal/systems"
	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Spawner - внешний код, который между тиками добавляет сущности (волны).
type Spawner interface {
	// Spawn создает всё, что должно появиться к тику tick.
	Spawn(tick uint64, r *domain.Registry) ([]domain.EntityID, error)
	// Pending - сколько ещё запланировано.
	Pending() int
	// NextTick - тик ближайшего спавна, false если расписание пусто.
	NextTick() (uint64, bool)
}

// Publisher получает снимок после каждого тика (хаб WebSocket, терминал).
type Publisher interface {
	Broadcast(msg api.SnapshotMessage)
}

// Runner - драйвер с фиксированным шагом. Единственная горутина, которая
// трогает Clock и реестр; наружу уходят только неизменяемые снимки.
type Runner struct {
	clock     *Clock
	spawner   Spawner
	publisher Publisher
	cfg       Config
	grid      *api.GridMeta

	mu    sync.RWMutex
	last  api.SnapshotMessage
	stats Stats
}

// NewRunner собирает драйвер. spawner и publisher могут быть nil.
func NewRunner(clock *Clock, spawner Spawner, publisher Publisher, cfg Config, grid *api.GridMeta) *Runner {
	return &Runner{
		clock:     clock,
		spawner:   spawner,
		publisher: publisher,
		cfg:       cfg,
		grid:      grid,
	}
}

// Clock отдает часы (для тестов и отладки).
func (r *Runner) Clock() *Clock {
	return r.clock
}

// Last возвращает последний опубликованный снимок.
func (r *Runner) Last() api.SnapshotMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Stats возвращает накопительную статистику.
func (r *Runner) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Prime публикует начальный снимок: спавн нулевого тика без Advance.
func (r *Runner) Prime() error {
	spawned, err := r.spawn()
	if err != nil {
		return err
	}
	return r.publish(idEvents(api.EventSpawn, spawned))
}

// Step - одна итерация драйвера: спавн, тик, уход дошедших до цели, публикация.
func (r *Runner) Step() (TickReport, error) {
	spawned, err := r.spawn()
	if err != nil {
		return TickReport{}, err
	}

	rep, err := r.clock.Advance()
	if err != nil {
		return TickReport{}, err
	}

	leaked, err := r.reapLeaks()
	if err != nil {
		return rep, err
	}

	r.mu.Lock()
	r.stats.Killed += len(rep.Destroyed)
	r.mu.Unlock()

	events := idEvents(api.EventSpawn, spawned)
	events = append(events, reportEvents(rep)...)
	events = append(events, idEvents(api.EventLeak, leaked)...)

	return rep, r.publish(events)
}

// Run крутит Step с периодом cfg.TickRate, пока не отменят ctx или не
// сработает условие остановки. Тик никогда не прерывается посередине.
func (r *Runner) Run(ctx context.Context) error {
	log := logger.Log.WithField("component", "sim_runner")
	log.WithFields(logrus.Fields{
		"tick_rate": r.cfg.TickRate,
		"max_ticks": r.cfg.MaxTicks,
	}).Info("Simulation loop started")

	if err := r.Prime(); err != nil {
		return err
	}

	ticker := time.NewTicker(r.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("tick", r.clock.Tick()).Info("Simulation loop stopped")
			return nil
		case <-ticker.C:
		}

		if _, err := r.Step(); err != nil {
			if errors.Is(err, ErrReentrantTick) {
				log.WithError(err).Error("Driver bug: tick re-entered")
			}
			return err
		}

		if reason, done := r.finished(); done {
			stats := r.Stats()
			log.WithFields(logrus.Fields{
				"tick":    r.clock.Tick(),
				"reason":  reason,
				"spawned": stats.Spawned,
				"killed":  stats.Killed,
				"leaked":  stats.Leaked,
			}).Info("Simulation finished")
			return nil
		}
	}
}

// RunTicks прогоняет n шагов без таймера (headless-режим и тесты).
func (r *Runner) RunTicks(n int) error {
	if err := r.Prime(); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := r.Step(); err != nil {
			return err
		}
		if _, done := r.finished(); done {
			return nil
		}
	}
	return nil
}

func (r *Runner) finished() (string, bool) {
	if r.cfg.MaxTicks > 0 && r.clock.Tick() >= r.cfg.MaxTicks {
		return "max_ticks", true
	}
	if !r.cfg.StopWhenDone {
		return "", false
	}
	if r.spawner != nil && r.spawner.Pending() > 0 {
		return "", false
	}
	for range r.clock.Registry().IterateWith(domain.SetMover) {
		return "", false
	}
	return "waves_cleared", true
}

func (r *Runner) spawn() ([]domain.EntityID, error) {
	if r.spawner == nil {
		return nil, nil
	}

	var spawned []domain.EntityID
	err := r.clock.Mutate(func(reg *domain.Registry) error {
		var err error
		spawned, err = r.spawner.Spawn(r.clock.Tick(), reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(spawned) > 0 {
		r.clock.metrics.recordSpawns(len(spawned))
		r.mu.Lock()
		r.stats.Spawned += len(spawned)
		r.mu.Unlock()
	}
	return spawned, nil
}

// reapLeaks убирает ходячих, которые дошли до конца пути.
func (r *Runner) reapLeaks() ([]domain.EntityID, error) {
	var leaked []domain.EntityID
	err := r.clock.Mutate(func(reg *domain.Registry) error {
		for id := range reg.IterateWith(domain.SetMover) {
			if systems.AtDestination(reg, id) {
				leaked = append(leaked, id)
			}
		}
		for _, id := range leaked {
			reg.Destroy(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(leaked) > 0 {
		r.clock.metrics.recordLeaks(len(leaked))
		r.mu.Lock()
		r.stats.Leaked += len(leaked)
		r.mu.Unlock()

		logger.Log.WithFields(logrus.Fields{
			"component": "sim_runner",
			"tick":      r.clock.Tick(),
			"leaked":    len(leaked),
		}).Info("Walkers reached the goal")
	}
	return leaked, nil
}

func (r *Runner) publish(events []api.EventView) error {
	snap, err := r.clock.Snapshot()
	if err != nil {
		return err
	}

	var queue SpawnQueue
	if r.spawner != nil {
		queue.Pending = r.spawner.Pending()
		queue.NextTick, queue.HasNext = r.spawner.NextTick()
	}

	r.mu.Lock()
	msg := BuildSnapshotMessage(snap, events, r.stats, queue, r.grid)
	r.last = msg
	r.mu.Unlock()

	if r.publisher != nil {
		r.publisher.Broadcast(msg)
	}
	return nil
}
