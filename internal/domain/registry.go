package domain

import (
	"fmt"
	"iter"
	"sort"
)

// Registry владеет всеми сущностями симуляции и их компонентами.
//
// Хранение - по одному разреженному Store на тип компонента плюс маска
// компонентов для каждой живой сущности. Пока идёт тик (BeginTick..EndTick),
// Destroy не удаляет сущность сразу, а ставит её в очередь: системы, которые
// ещё не закончили проход, не должны увидеть "дыру" или висячую ссылку.
type Registry struct {
	nextID EntityID
	alive  map[EntityID]ComponentSet

	positions *Store[Position]
	moves     *Store[Move]
	shooters  *Store[Shooter]
	healths   *Store[Health]
	paths     *Store[Path]
	goals     *Store[Goal]
	factions  *Store[Faction]

	ticking bool
	pending map[EntityID]struct{}
}

// NewRegistry создает пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		nextID:    1,
		alive:     make(map[EntityID]ComponentSet),
		positions: NewStore[Position](),
		moves:     NewStore[Move](),
		shooters:  NewStore[Shooter](),
		healths:   NewStore[Health](),
		paths:     NewStore[Path](),
		goals:     NewStore[Goal](),
		factions:  NewStore[Faction](),
		pending:   make(map[EntityID]struct{}),
	}
}

func (r *Registry) store(k ComponentKind) anyStore {
	switch k {
	case KindPosition:
		return r.positions
	case KindMove:
		return r.moves
	case KindShooter:
		return r.shooters
	case KindHealth:
		return r.healths
	case KindPath:
		return r.paths
	case KindGoal:
		return r.goals
	case KindFaction:
		return r.factions
	}
	panic(fmt.Sprintf("registry: unsupported component kind %d", k))
}

// Create выделяет новый ID без компонентов. Не падает никогда.
func (r *Registry) Create() EntityID {
	id := r.nextID
	r.nextID++
	r.alive[id] = 0
	return id
}

// Alive - существует ли сущность (в том числе помеченная на удаление в текущем тике).
func (r *Registry) Alive(id EntityID) bool {
	_, ok := r.alive[id]
	return ok
}

// Len - количество живых сущностей.
func (r *Registry) Len() int {
	return len(r.alive)
}

// Components возвращает маску компонентов сущности.
func (r *Registry) Components(id EntityID) (ComponentSet, bool) {
	set, ok := r.alive[id]
	return set, ok
}

// Attach добавляет или заменяет компонент.
// Нарушение инварианта компонента - ошибка программиста, поэтому паника.
func (r *Registry) Attach(id EntityID, c Component) error {
	set, ok := r.alive[id]
	if !ok {
		return fmt.Errorf("attach %s to %s: %w", c.Kind(), id, ErrUnknownEntity)
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("registry: attach to %s: %v", id, err))
	}

	switch v := c.(type) {
	case Position:
		r.positions.Set(id, v)
	case Move:
		r.moves.Set(id, v)
	case Shooter:
		r.shooters.Set(id, v)
	case Health:
		r.healths.Set(id, v)
	case Path:
		// Копируем маршрут, чтобы вызывающий код не мог изменить его снаружи
		v.Hexes = append(v.Hexes[:0:0], v.Hexes...)
		r.paths.Set(id, v)
	case Goal:
		r.goals.Set(id, v)
	case Faction:
		r.factions.Set(id, v)
	default:
		panic(fmt.Sprintf("registry: unsupported component %T", c))
	}

	r.alive[id] = set | ComponentSet(c.Kind())
	return nil
}

// Detach снимает компонент. Отсутствие компонента - не ошибка.
func (r *Registry) Detach(id EntityID, k ComponentKind) error {
	set, ok := r.alive[id]
	if !ok {
		return fmt.Errorf("detach %s from %s: %w", k, id, ErrUnknownEntity)
	}
	r.store(k).Remove(id)
	r.alive[id] = set &^ ComponentSet(k)
	return nil
}

// Get возвращает компонент, если он есть.
func (r *Registry) Get(id EntityID, k ComponentKind) (Component, bool) {
	if _, ok := r.alive[id]; !ok {
		return nil, false
	}
	return r.store(k).getAny(id)
}

// Destroy удаляет сущность со всеми компонентами. Идемпотентен.
// Во время тика удаление откладывается до EndTick.
func (r *Registry) Destroy(id EntityID) {
	if _, ok := r.alive[id]; !ok {
		return
	}
	if r.ticking {
		r.pending[id] = struct{}{}
		return
	}
	r.remove(id)
}

// PendingDestroy - помечена ли сущность на удаление в текущем тике.
func (r *Registry) PendingDestroy(id EntityID) bool {
	_, ok := r.pending[id]
	return ok
}

func (r *Registry) remove(id EntityID) {
	set := r.alive[id]
	for _, k := range set.Kinds() {
		r.store(k).Remove(id)
	}
	delete(r.alive, id)
}

// IterateWith возвращает ленивую последовательность ID, у которых есть все
// компоненты из set, по возрастанию ID.
//
// Состав кандидатов фиксируется в момент вызова. Сущности, уничтоженные вне
// тика после вызова, пропускаются; помеченные на удаление во время тика
// остаются видимыми до EndTick.
func (r *Registry) IterateWith(set ComponentSet) iter.Seq[EntityID] {
	candidates := r.candidates(set)

	return func(yield func(EntityID) bool) {
		for _, id := range candidates {
			have, ok := r.alive[id]
			if !ok || !have.Contains(set) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// candidates берет ID из самого маленького хранилища набора.
func (r *Registry) candidates(set ComponentSet) []EntityID {
	kinds := set.Kinds()
	if len(kinds) == 0 {
		ids := make([]EntityID, 0, len(r.alive))
		for id := range r.alive {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids
	}

	smallest := r.store(kinds[0])
	for _, k := range kinds[1:] {
		if s := r.store(k); s.Len() < smallest.Len() {
			smallest = s
		}
	}
	return smallest.IDs()
}

// Collect - IterateWith, собранный в срез.
func (r *Registry) Collect(set ComponentSet) []EntityID {
	var out []EntityID
	for id := range r.IterateWith(set) {
		out = append(out, id)
	}
	return out
}

// --- ТИК ---

// BeginTick включает режим отложенного удаления.
func (r *Registry) BeginTick() {
	r.ticking = true
}

// Ticking - идёт ли сейчас тик.
func (r *Registry) Ticking() bool {
	return r.ticking
}

// EndTick применяет отложенные удаления по возрастанию ID и возвращает их.
func (r *Registry) EndTick() []EntityID {
	r.ticking = false
	if len(r.pending) == 0 {
		return nil
	}

	destroyed := make([]EntityID, 0, len(r.pending))
	for id := range r.pending {
		destroyed = append(destroyed, id)
	}
	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i] < destroyed[j] })

	for _, id := range destroyed {
		r.remove(id)
	}
	clear(r.pending)
	return destroyed
}

// --- ТИПИЗИРОВАННЫЙ ДОСТУП ---

// Position возвращает копию позиции.
func (r *Registry) Position(id EntityID) (Position, bool) { return r.positions.Get(id) }

// Move возвращает копию компонента движения.
func (r *Registry) Move(id EntityID) (Move, bool) { return r.moves.Get(id) }

// Shooter возвращает копию компонента стрельбы.
func (r *Registry) Shooter(id EntityID) (Shooter, bool) { return r.shooters.Get(id) }

// Health возвращает копию здоровья.
func (r *Registry) Health(id EntityID) (Health, bool) { return r.healths.Get(id) }

// Path возвращает копию маршрута (срез точек общий, не изменять).
func (r *Registry) Path(id EntityID) (Path, bool) { return r.paths.Get(id) }

// Goal возвращает цель движения.
func (r *Registry) Goal(id EntityID) (Goal, bool) { return r.goals.Get(id) }

// Faction возвращает команду.
func (r *Registry) Faction(id EntityID) (Faction, bool) { return r.factions.Get(id) }

// Ссылки для систем: изменение компонента на месте внутри тика.
// Внешний код (спавнеры, отрисовка) должен пользоваться Attach и копиями.

func (r *Registry) PositionRef(id EntityID) *Position { return r.positions.Ref(id) }
func (r *Registry) MoveRef(id EntityID) *Move         { return r.moves.Ref(id) }
func (r *Registry) ShooterRef(id EntityID) *Shooter   { return r.shooters.Ref(id) }
func (r *Registry) HealthRef(id EntityID) *Health     { return r.healths.Ref(id) }
func (r *Registry) PathRef(id EntityID) *Path         { return r.paths.Ref(id) }
