package engine

import (
	"hexdefense-server/internal/domain"
)

// EntityState - состояние одной сущности для слоя отрисовки.
type EntityState struct {
	ID       domain.EntityID
	Position domain.Position
	Health   *domain.Health
	Shooter  *domain.Shooter
	Faction  *domain.Faction
	Mobile   bool // Есть компонент Move
}

// Snapshot - копия позиций и здоровья между тиками.
// Ничего не ссылается на внутренности реестра.
type Snapshot struct {
	Tick     uint64
	Entities []EntityState
}

// Find ищет сущность в снимке.
func (s Snapshot) Find(id domain.EntityID) (EntityState, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityState{}, false
}

// Snapshot снимает состояние всех сущностей с позицией.
// Во время тика возвращает ErrTickInProgress.
func (c *Clock) Snapshot() (Snapshot, error) {
	if c.State() != StateIdle {
		return Snapshot{}, ErrTickInProgress
	}

	r := c.registry
	snap := Snapshot{Tick: c.tick}

	for id := range r.IterateWith(domain.NewComponentSet(domain.KindPosition)) {
		pos, _ := r.Position(id)
		st := EntityState{ID: id, Position: pos}

		if h, ok := r.Health(id); ok {
			st.Health = &h
		}
		if s, ok := r.Shooter(id); ok {
			st.Shooter = &s
		}
		if f, ok := r.Faction(id); ok {
			st.Faction = &f
		}
		_, st.Mobile = r.Move(id)

		snap.Entities = append(snap.Entities, st)
	}
	return snap, nil
}

// Positions - только позиции, для простых потребителей.
func (c *Clock) Positions() (map[domain.EntityID]domain.Position, error) {
	if c.State() != StateIdle {
		return nil, ErrTickInProgress
	}
	out := make(map[domain.EntityID]domain.Position)
	for id := range c.registry.IterateWith(domain.NewComponentSet(domain.KindPosition)) {
		out[id], _ = c.registry.Position(id)
	}
	return out, nil
}

// Healths - только здоровье.
func (c *Clock) Healths() (map[domain.EntityID]domain.Health, error) {
	if c.State() != StateIdle {
		return nil, ErrTickInProgress
	}
	out := make(map[domain.EntityID]domain.Health)
	for id := range c.registry.IterateWith(domain.NewComponentSet(domain.KindHealth)) {
		out[id], _ = c.registry.Health(id)
	}
	return out, nil
}
