package systems

import (
	"testing"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnWalker(t *testing.T, r *domain.Registry, at hex.Coord, ticksToMove int) domain.EntityID {
	t.Helper()
	id := r.Create()
	require.NoError(t, r.Attach(id, domain.PositionAt(at)))
	require.NoError(t, r.Attach(id, domain.Move{TicksToMove: ticksToMove}))
	return id
}

func TestStepToward(t *testing.T) {
	tests := []struct {
		name     string
		from, to hex.Coord
		want     hex.Coord
	}{
		{"already there", hex.New(1, 1), hex.New(1, 1), hex.New(1, 1)},
		{"straight east", hex.New(0, 0), hex.New(3, 0), hex.New(1, 0)},
		{"straight west", hex.New(0, 0), hex.New(-2, 0), hex.New(-1, 0)},
		// NW и NE одинаково хороши, NW раньше в порядке соседей
		{"tie broken by neighbour order", hex.New(0, 0), hex.New(1, -2), hex.New(0, -1)},
		// E и SE одинаково хороши, E первый
		{"tie east wins", hex.New(0, 0), hex.New(1, 1), hex.New(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepToward(tt.from, tt.to))
		})
	}
}

func TestRunMovement_Cadence(t *testing.T) {
	r := domain.NewRegistry()
	id := spawnWalker(t, r, hex.Origin, 3)
	require.NoError(t, r.Attach(id, domain.Goal{Target: hex.New(10, 0)}))

	for i := 1; i < 3; i++ {
		res := RunMovement(r)
		assert.Empty(t, res.Stepped)

		m, _ := r.Move(id)
		assert.Equal(t, i, m.TicksPassed)
	}

	res := RunMovement(r)
	assert.Equal(t, []domain.EntityID{id}, res.Stepped)

	pos, _ := r.Position(id)
	assert.Equal(t, hex.New(1, 0), pos.Coord())

	m, _ := r.Move(id)
	assert.Zero(t, m.TicksPassed)
}

func TestRunMovement_OneStepPerCadence(t *testing.T) {
	for _, ticksToMove := range []int{1, 2, 5} {
		r := domain.NewRegistry()
		id := spawnWalker(t, r, hex.Origin, ticksToMove)
		require.NoError(t, r.Attach(id, domain.Goal{Target: hex.New(-20, 7)}))

		start, _ := r.Position(id)
		for i := 0; i < ticksToMove; i++ {
			RunMovement(r)
		}
		end, _ := r.Position(id)

		assert.Equal(t, 1, start.DistanceTo(end), "ticksToMove=%d", ticksToMove)
		m, _ := r.Move(id)
		assert.Zero(t, m.TicksPassed)
	}
}

func TestRunMovement_DeterministicWalkToGoal(t *testing.T) {
	r := domain.NewRegistry()
	id := spawnWalker(t, r, hex.Origin, 1)
	require.NoError(t, r.Attach(id, domain.Goal{Target: hex.New(2, -3)}))

	var trace []hex.Coord
	for i := 0; i < 5; i++ {
		RunMovement(r)
		pos, _ := r.Position(id)
		trace = append(trace, pos.Coord())
	}

	want := []hex.Coord{
		hex.New(0, -1),
		hex.New(1, -2),
		hex.New(2, -3),
		hex.New(2, -3), // стоим на цели
		hex.New(2, -3),
	}
	assert.Equal(t, want, trace)
	assert.True(t, AtDestination(r, id))
}

func TestRunMovement_FollowsPathThenGoal(t *testing.T) {
	r := domain.NewRegistry()
	id := spawnWalker(t, r, hex.Origin, 1)
	require.NoError(t, r.Attach(id, domain.Path{Hexes: []hex.Coord{
		hex.Origin, // стартовая точка уже пройдена
		hex.New(2, 0),
		hex.New(2, 2),
	}}))
	require.NoError(t, r.Attach(id, domain.Goal{Target: hex.New(1, 2)}))

	var trace []hex.Coord
	var arrivedAt int
	for i := 1; i <= 6; i++ {
		res := RunMovement(r)
		pos, _ := r.Position(id)
		trace = append(trace, pos.Coord())
		if len(res.Arrived) > 0 && arrivedAt == 0 {
			arrivedAt = i
		}
	}

	want := []hex.Coord{
		hex.New(1, 0),
		hex.New(2, 0),
		hex.New(2, 1),
		hex.New(2, 2),
		hex.New(1, 2),
		hex.New(1, 2),
	}
	assert.Equal(t, want, trace)
	assert.Equal(t, 5, arrivedAt)

	p, _ := r.Path(id)
	assert.True(t, p.Done())
}

func TestRunMovement_NoDestinationStaysPut(t *testing.T) {
	r := domain.NewRegistry()
	id := spawnWalker(t, r, hex.New(4, 4), 1)

	res := RunMovement(r)

	assert.Empty(t, res.Stepped)
	pos, _ := r.Position(id)
	assert.Equal(t, hex.New(4, 4), pos.Coord())
	m, _ := r.Move(id)
	assert.Zero(t, m.TicksPassed)
	assert.False(t, AtDestination(r, id))
}

func TestRunMovement_IgnoresEntitiesWithoutMove(t *testing.T) {
	r := domain.NewRegistry()
	tower := r.Create()
	require.NoError(t, r.Attach(tower, domain.Position{}))
	require.NoError(t, r.Attach(tower, domain.Goal{Target: hex.New(5, 5)}))

	RunMovement(r)

	pos, _ := r.Position(tower)
	assert.Equal(t, domain.Position{}, pos)
}
