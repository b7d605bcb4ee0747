package engine

import (
	"fmt"

	"hexdefense-server/internal/domain"
	"hexdefense-server/internal/scenario"
)

// NewSimulation собирает всё для прогона сценария: реестр с башнями,
// часы, расписание волн и драйвер. publisher может быть nil.
func NewSimulation(sc scenario.Scenario, cfg Config, publisher Publisher) (*Runner, *scenario.Spawner, error) {
	reg := domain.NewRegistry()
	if _, err := sc.Build(reg); err != nil {
		return nil, nil, fmt.Errorf("build scenario: %w", err)
	}

	spawner := scenario.NewSpawner(sc.Goal, sc.Waves)
	runner := NewRunner(NewClock(reg), spawner, publisher, cfg, sc.Grid())
	return runner, spawner, nil
}
