package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"hexdefense-server/internal/domain"
	"hexdefense-server/internal/systems"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// State - состояние часов симуляции.
type State int32

const (
	StateIdle State = iota
	StateTicking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTicking:
		return "ticking"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// TickReport - что произошло за один тик.
type TickReport struct {
	Tick        uint64               `json:"tick"`
	Stepped     []domain.EntityID    `json:"stepped,omitempty"`
	Engagements []systems.Engagement `json:"engagements,omitempty"`
	Shots       []systems.Shot       `json:"shots,omitempty"`
	Destroyed   []domain.EntityID    `json:"destroyed,omitempty"`
	Duration    time.Duration        `json:"-"`
}

// Clock прогоняет один дискретный тик по всем системам в фиксированном
// порядке: Movement -> Targeting -> Combat -> отложенные удаления.
//
// На время тика Clock монопольно владеет реестром. Внешний код (спавнеры,
// отрисовка) трогает реестр только между тиками: через Mutate и Snapshot.
type Clock struct {
	registry *domain.Registry
	state    atomic.Int32
	tick     uint64

	onKill  []systems.KillFunc
	metrics *simMetrics
}

// NewClock создает часы поверх реестра.
func NewClock(r *domain.Registry) *Clock {
	return &Clock{
		registry: r,
		metrics:  newSimMetrics(),
	}
}

// State возвращает текущее состояние.
func (c *Clock) State() State {
	return State(c.state.Load())
}

// Tick - номер последнего завершенного тика (0 до первого Advance).
func (c *Clock) Tick() uint64 {
	return c.tick
}

// Registry отдает реестр для чтения в тестах и отладке.
// Изменять его снаружи можно только через Mutate.
func (c *Clock) Registry() *domain.Registry {
	return c.registry
}

// OnKill регистрирует хук, который вызывается внутри тика, когда цель
// впервые помечена на удаление. Хук не должен вызывать Advance.
func (c *Clock) OnKill(fn systems.KillFunc) {
	c.onKill = append(c.onKill, fn)
}

// Advance выполняет ровно один тик.
// Повторный вход (например, из хука) возвращает ErrReentrantTick.
func (c *Clock) Advance() (TickReport, error) {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateTicking)) {
		return TickReport{}, ErrReentrantTick
	}

	start := time.Now()
	r := c.registry

	r.BeginTick()
	defer func() {
		// Если хук запаниковал, EndTick ниже не выполнился
		if r.Ticking() {
			r.EndTick()
		}
		c.state.Store(int32(StateIdle))
	}()
	c.tick++

	// 1. Движение. Новые позиции сразу видны наведению.
	moved := systems.RunMovement(r)

	// 2. Наведение. Цели выбираются заново, ничего не хранится между тиками.
	engagements := systems.FindTargets(r)

	// 3. Бой. Смерти только помечаются.
	shots := systems.ResolveCombat(r, engagements, c.handleKill)

	// 4. Отложенные удаления.
	destroyed := r.EndTick()

	rep := TickReport{
		Tick:        c.tick,
		Stepped:     moved.Stepped,
		Engagements: engagements,
		Shots:       shots,
		Destroyed:   destroyed,
		Duration:    time.Since(start),
	}

	c.metrics.recordTick(rep)

	logger.Log.WithFields(logrus.Fields{
		"component": "sim_clock",
		"tick":      rep.Tick,
		"stepped":   len(rep.Stepped),
		"engaged":   len(rep.Engagements),
		"shots":     len(rep.Shots),
		"destroyed": len(rep.Destroyed),
		"entities":  r.Len(),
	}).Debug("Tick completed.")

	return rep, nil
}

func (c *Clock) handleKill(target, killer domain.EntityID) {
	logger.Log.WithFields(logrus.Fields{
		"component": "sim_clock",
		"tick":      c.tick,
		"target_id": target,
		"killer_id": killer,
	}).Info("Entity killed.")

	for _, fn := range c.onKill {
		fn(target, killer)
	}
}

// Mutate дает внешнему коду (спавнеры, настройка сцены) изменить реестр
// между тиками. Во время тика возвращает ErrTickInProgress.
func (c *Clock) Mutate(fn func(r *domain.Registry) error) error {
	if c.State() != StateIdle {
		return ErrTickInProgress
	}
	return fn(c.registry)
}
