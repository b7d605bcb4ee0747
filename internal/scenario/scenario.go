package scenario

import (
	"errors"
	"fmt"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/hex"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// TowerSpec - стационарная башня.
// Team == 0 означает "без команды": компонент Faction не вешается.
type TowerSpec struct {
	Q           int     `mapstructure:"q" json:"q"`
	R           int     `mapstructure:"r" json:"r"`
	Range       int     `mapstructure:"range" json:"range"`
	Damage      float64 `mapstructure:"damage" json:"damage"`
	TicksToFire int     `mapstructure:"ticksToFire" json:"ticksToFire"`
	HP          int     `mapstructure:"hp" json:"hp,omitempty"` // 0 - башню нельзя атаковать
	Team        int     `mapstructure:"team" json:"team,omitempty"`
}

// Coord - клетка башни.
func (t TowerSpec) Coord() hex.Coord {
	return hex.New(t.Q, t.R)
}

func (t TowerSpec) shooter() domain.Shooter {
	return domain.Shooter{
		Role:        domain.AttackerTower,
		Range:       t.Range,
		Damage:      t.Damage,
		TicksToFire: t.TicksToFire,
	}
}

// WaveSpec - волна одинаковых юнитов.
// Юнит появляется в Spawn, проходит точки Path и идет к цели сценария.
type WaveSpec struct {
	Name        string      `mapstructure:"name" json:"name,omitempty"`
	StartTick   uint64      `mapstructure:"startTick" json:"startTick"`
	Count       int         `mapstructure:"count" json:"count"`
	Interval    uint64      `mapstructure:"interval" json:"interval"`
	Spawn       hex.Coord   `mapstructure:"spawn" json:"spawn"`
	Path        []hex.Coord `mapstructure:"path" json:"path,omitempty"`
	HP          int         `mapstructure:"hp" json:"hp"`
	TicksToMove int         `mapstructure:"ticksToMove" json:"ticksToMove"`
	Team        int         `mapstructure:"team" json:"team,omitempty"`

	// Вооруженные юниты. TicksToFire == 0 - без оружия.
	Range       int     `mapstructure:"range" json:"range,omitempty"`
	Damage      float64 `mapstructure:"damage" json:"damage,omitempty"`
	TicksToFire int     `mapstructure:"ticksToFire" json:"ticksToFire,omitempty"`
}

// Armed - есть ли у юнитов волны оружие.
func (w WaveSpec) Armed() bool {
	return w.TicksToFire > 0
}

func (w WaveSpec) shooter() domain.Shooter {
	return domain.Shooter{
		Role:        domain.AttackerUnit,
		Range:       w.Range,
		Damage:      w.Damage,
		TicksToFire: w.TicksToFire,
	}
}

func (w WaveSpec) validate() error {
	if w.Count <= 0 {
		return fmt.Errorf("count must be > 0, got %d", w.Count)
	}
	if w.Count > 1 && w.Interval == 0 {
		return errors.New("interval must be > 0 for more than one unit")
	}
	if w.HP <= 0 {
		return fmt.Errorf("hp must be > 0, got %d", w.HP)
	}
	if err := (domain.Move{TicksToMove: w.TicksToMove}).Validate(); err != nil {
		return err
	}
	if w.Armed() {
		if err := w.shooter().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Scenario - стартовая расстановка и расписание волн.
type Scenario struct {
	Goal   hex.Coord   `mapstructure:"goal" json:"goal"`
	Radius int         `mapstructure:"radius" json:"radius"` // Радиус карты вокруг (0,0). 0 - без границ
	Towers []TowerSpec `mapstructure:"towers" json:"towers"`
	Waves  []WaveSpec  `mapstructure:"waves" json:"waves"`
}

// Validate проверяет сценарий теми же правилами, что и реестр при Attach.
func (s Scenario) Validate() error {
	if s.Radius < 0 {
		return fmt.Errorf("%w: negative radius %d", ErrInvalidScenario, s.Radius)
	}
	if !s.onMap(s.Goal) {
		return fmt.Errorf("%w: goal %s outside radius %d", ErrInvalidScenario, s.Goal, s.Radius)
	}

	occupied := make(map[hex.Coord]int, len(s.Towers))
	for i, t := range s.Towers {
		if err := t.shooter().Validate(); err != nil {
			return fmt.Errorf("%w: tower %d: %w", ErrInvalidScenario, i, err)
		}
		if t.HP < 0 {
			return fmt.Errorf("%w: tower %d: negative hp %d", ErrInvalidScenario, i, t.HP)
		}
		if !s.onMap(t.Coord()) {
			return fmt.Errorf("%w: tower %d at %s outside radius %d", ErrInvalidScenario, i, t.Coord(), s.Radius)
		}
		if prev, ok := occupied[t.Coord()]; ok {
			return fmt.Errorf("%w: towers %d and %d share %s", ErrInvalidScenario, prev, i, t.Coord())
		}
		occupied[t.Coord()] = i
	}

	for i, w := range s.Waves {
		if err := w.validate(); err != nil {
			return fmt.Errorf("%w: wave %d: %w", ErrInvalidScenario, i, err)
		}
		if !s.onMap(w.Spawn) {
			return fmt.Errorf("%w: wave %d: spawn %s outside radius %d", ErrInvalidScenario, i, w.Spawn, s.Radius)
		}
		for _, p := range w.Path {
			if !s.onMap(p) {
				return fmt.Errorf("%w: wave %d: waypoint %s outside radius %d", ErrInvalidScenario, i, p, s.Radius)
			}
		}
	}
	return nil
}

func (s Scenario) onMap(c hex.Coord) bool {
	return s.Radius == 0 || hex.Distance(hex.Origin, c) <= s.Radius
}

// Grid - метаданные карты для клиентов.
func (s Scenario) Grid() *api.GridMeta {
	return &api.GridMeta{
		Radius: s.Radius,
		GoalQ:  s.Goal.Q,
		GoalR:  s.Goal.R,
	}
}

// Units - сколько юнитов во всех волнах.
func (s Scenario) Units() int {
	n := 0
	for _, w := range s.Waves {
		n += w.Count
	}
	return n
}

// Build расставляет башни в реестре. Вызывается до первого тика.
func (s Scenario) Build(r *domain.Registry) ([]domain.EntityID, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ids := make([]domain.EntityID, 0, len(s.Towers))
	for _, t := range s.Towers {
		id := r.Create()
		components := []domain.Component{
			domain.PositionAt(t.Coord()),
			t.shooter(),
		}
		if t.HP > 0 {
			components = append(components, domain.FullHealth(t.HP))
		}
		if t.Team != 0 {
			components = append(components, domain.Faction{Team: t.Team})
		}
		if err := attachAll(r, id, components); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "scenario",
		"towers":    len(ids),
		"waves":     len(s.Waves),
		"units":     s.Units(),
		"goal":      s.Goal.String(),
	}).Info("Scenario built")

	return ids, nil
}

func attachAll(r *domain.Registry, id domain.EntityID, components []domain.Component) error {
	for _, c := range components {
		if err := r.Attach(id, c); err != nil {
			return err
		}
	}
	return nil
}

// Default - небольшая карта на две волны, используется без файла конфигурации.
func Default() Scenario {
	return Scenario{
		Goal:   hex.New(5, -5),
		Radius: 6,
		Towers: []TowerSpec{
			{Q: -2, R: 1, Range: 2, Damage: 4, TicksToFire: 3, Team: 1},
			{Q: 1, R: -2, Range: 3, Damage: 2.5, TicksToFire: 2, Team: 1},
			{Q: 3, R: -1, Range: 2, Damage: 6, TicksToFire: 5, HP: 30, Team: 1},
		},
		Waves: []WaveSpec{
			{
				Name:        "scouts",
				StartTick:   0,
				Count:       5,
				Interval:    4,
				Spawn:       hex.New(-5, 5),
				Path:        []hex.Coord{hex.New(-4, 1), hex.New(0, 0)},
				HP:          12,
				TicksToMove: 1,
				Team:        2,
			},
			{
				Name:        "raiders",
				StartTick:   30,
				Count:       3,
				Interval:    6,
				Spawn:       hex.New(-5, 5),
				Path:        []hex.Coord{hex.New(0, 3), hex.New(3, 0)},
				HP:          25,
				TicksToMove: 2,
				Range:       1,
				Damage:      3,
				TicksToFire: 4,
				Team:        2,
			},
		},
	}
}
