package scenario

import (
	"testing"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawner_Schedule(t *testing.T) {
	s := NewSpawner(hex.Origin, []WaveSpec{
		{Name: "late", StartTick: 4, Count: 2, Interval: 3, HP: 1, TicksToMove: 1},
		{StartTick: 4, Count: 1, HP: 1, TicksToMove: 1},
		{Name: "early", StartTick: 0, Count: 1, HP: 1, TicksToMove: 1},
	})

	assert.Equal(t, 4, s.Pending())
	next, ok := s.NextTick()
	require.True(t, ok)
	assert.Equal(t, uint64(0), next)

	assert.Equal(t, []ScheduledSpawn{
		{Tick: 0, Wave: "early"},
		{Tick: 4, Wave: "late"},
		{Tick: 4, Wave: "wave-1"},
		{Tick: 7, Wave: "late"},
	}, s.Schedule())
}

func TestSpawner_SpawnDueUnits(t *testing.T) {
	goal := hex.New(4, 0)
	path := []hex.Coord{hex.New(0, 2)}
	s := NewSpawner(goal, []WaveSpec{
		{Name: "a", StartTick: 1, Count: 3, Interval: 2, Spawn: hex.New(-1, 0), Path: path, HP: 7, TicksToMove: 2, Team: 2},
	})
	r := domain.NewRegistry()

	ids, err := s.Spawn(0, r)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = s.Spawn(3, r)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])
	assert.Equal(t, 1, s.Pending())

	id := ids[0]
	pos, _ := r.Position(id)
	assert.Equal(t, hex.New(-1, 0), pos.Coord())
	mv, _ := r.Move(id)
	assert.Equal(t, domain.Move{TicksToMove: 2}, mv)
	h, _ := r.Health(id)
	assert.Equal(t, domain.FullHealth(7), h)
	g, _ := r.Goal(id)
	assert.Equal(t, goal, g.Target)
	p, _ := r.Path(id)
	assert.Equal(t, path, p.Hexes)
	f, _ := r.Faction(id)
	assert.Equal(t, 2, f.Team)
	_, armed := r.Shooter(id)
	assert.False(t, armed)

	// Маршрут копируется, юниты не делят слайс
	r.PathRef(ids[0]).Hexes[0] = hex.New(9, 9)
	p, _ = r.Path(ids[1])
	assert.Equal(t, hex.New(0, 2), p.Hexes[0])

	ids, err = s.Spawn(100, r)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Zero(t, s.Pending())
	_, ok := s.NextTick()
	assert.False(t, ok)
}

func TestSpawner_ArmedUnits(t *testing.T) {
	s := NewSpawner(hex.Origin, []WaveSpec{
		{Count: 1, Spawn: hex.New(3, 0), HP: 4, TicksToMove: 1, Range: 1, Damage: 2, TicksToFire: 3},
	})
	r := domain.NewRegistry()

	ids, err := s.Spawn(0, r)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	sh, ok := r.Shooter(ids[0])
	require.True(t, ok)
	assert.Equal(t, domain.AttackerUnit, sh.Role)
	assert.Equal(t, 3, sh.TicksToFire)

	_, hasFaction := r.Faction(ids[0])
	assert.False(t, hasFaction)
}

func TestSpawner_InvalidWave(t *testing.T) {
	s := NewSpawner(hex.Origin, []WaveSpec{{Count: 1, HP: 3, TicksToMove: 0}})
	r := domain.NewRegistry()

	_, err := s.Spawn(0, r)
	assert.ErrorIs(t, err, domain.ErrInvalidComponent)
}
