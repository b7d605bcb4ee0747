package scenario

import (
	"container/heap"
	"slices"
	"strconv"
	"sync"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ScheduledSpawn - запланированный юнит, для отладки.
type ScheduledSpawn struct {
	Tick uint64 `json:"tick"`
	Wave string `json:"wave"`
}

// Spawner выпускает юнитов волн по расписанию.
// Реестр трогает только между тиками (через Clock.Mutate).
// Расписание можно читать из других горутин (отладочный HTTP).
type Spawner struct {
	mu    sync.Mutex
	goal  hex.Coord
	waves []WaveSpec
	queue spawnQueue
}

// NewSpawner раскладывает каждого юнита каждой волны в очередь по тикам.
func NewSpawner(goal hex.Coord, waves []WaveSpec) *Spawner {
	s := &Spawner{
		goal:  goal,
		waves: slices.Clone(waves),
		queue: make(spawnQueue, 0),
	}
	heap.Init(&s.queue)

	seq := 0
	for wi, w := range s.waves {
		for k := 0; k < w.Count; k++ {
			heap.Push(&s.queue, &spawnItem{
				Tick: w.StartTick + uint64(k)*w.Interval,
				Seq:  seq,
				Wave: wi,
			})
			seq++
		}
	}
	return s
}

// Pending - сколько юнитов ещё не выпущено.
func (s *Spawner) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// NextTick - тик ближайшего спавна.
func (s *Spawner) NextTick() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.queue.Peek()
	if next == nil {
		return 0, false
	}
	return next.Tick, true
}

// Schedule возвращает оставшееся расписание по порядку.
func (s *Spawner) Schedule() []ScheduledSpawn {
	s.mu.Lock()
	items := slices.Clone(s.queue)
	s.mu.Unlock()

	slices.SortFunc(items, func(a, b *spawnItem) int {
		if a.Tick != b.Tick {
			if a.Tick < b.Tick {
				return -1
			}
			return 1
		}
		return a.Seq - b.Seq
	})

	out := make([]ScheduledSpawn, 0, len(items))
	for _, it := range items {
		out = append(out, ScheduledSpawn{Tick: it.Tick, Wave: s.waveName(it.Wave)})
	}
	return out
}

// Spawn создает всех юнитов, чей тик <= tick. Юниты одного тика
// создаются в порядке постановки, поэтому их ID детерминированы.
func (s *Spawner) Spawn(tick uint64, r *domain.Registry) ([]domain.EntityID, error) {
	s.mu.Lock()
	due := s.queue.popDue(tick)
	pending := s.queue.Len()
	s.mu.Unlock()

	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]domain.EntityID, 0, len(due))
	perWave := make(map[string]int)
	for _, it := range due {
		w := s.waves[it.Wave]
		if err := w.validate(); err != nil {
			return ids, err
		}

		id := r.Create()
		if err := attachAll(r, id, s.unitComponents(w)); err != nil {
			return ids, err
		}
		ids = append(ids, id)
		perWave[s.waveName(it.Wave)]++
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "spawner",
		"tick":      tick,
		"spawned":   len(ids),
		"waves":     perWave,
		"pending":   pending,
	}).Info("Wave units spawned")

	return ids, nil
}

func (s *Spawner) unitComponents(w WaveSpec) []domain.Component {
	components := []domain.Component{
		domain.PositionAt(w.Spawn),
		domain.Move{TicksToMove: w.TicksToMove},
		domain.FullHealth(w.HP),
		domain.Goal{Target: s.goal},
	}
	if len(w.Path) > 0 {
		components = append(components, domain.Path{Hexes: w.Path})
	}
	if w.Armed() {
		components = append(components, w.shooter())
	}
	if w.Team != 0 {
		components = append(components, domain.Faction{Team: w.Team})
	}
	return components
}

func (s *Spawner) waveName(i int) string {
	if name := s.waves[i].Name; name != "" {
		return name
	}
	return "wave-" + strconv.Itoa(i)
}
