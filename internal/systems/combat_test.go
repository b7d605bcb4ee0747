package systems

import (
	"math"
	"testing"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCombat_CooldownGatesDamage(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 2, 5, 3)
	target := spawnTarget(t, r, hex.New(2, 0), 10)

	engaged := []Engagement{{Attacker: tower, Target: target, Distance: 2}}

	assert.Empty(t, ResolveCombat(r, engaged, nil))
	assert.Empty(t, ResolveCombat(r, engaged, nil))

	shots := ResolveCombat(r, engaged, nil)
	require.Len(t, shots, 1)
	assert.Equal(t, Shot{Attacker: tower, Target: target, Damage: 5, HPBefore: 10, HPAfter: 5}, shots[0])

	s, _ := r.Shooter(tower)
	assert.Zero(t, s.TicksPassed)
}

func TestResolveCombat_NoTargetNoCooldown(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 2, 5, 3)

	ResolveCombat(r, nil, nil)

	s, _ := r.Shooter(tower)
	assert.Zero(t, s.TicksPassed)
}

func TestResolveCombat_FloorsAtZeroAndKills(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 2, 50, 1)
	target := spawnTarget(t, r, hex.New(1, 0), 10)

	var killed []domain.EntityID
	onKill := func(victim, killer domain.EntityID) {
		assert.Equal(t, tower, killer)
		killed = append(killed, victim)
	}

	// Вне тика удаление немедленное
	shots := ResolveCombat(r, []Engagement{{Attacker: tower, Target: target}}, onKill)

	require.Len(t, shots, 1)
	assert.Zero(t, shots[0].HPAfter)
	assert.True(t, shots[0].Killed)
	assert.Equal(t, []domain.EntityID{target}, killed)
	assert.False(t, r.Alive(target))
}

func TestResolveCombat_SimultaneousHitsLowestAttackerFirst(t *testing.T) {
	r := domain.NewRegistry()
	a1 := spawnTower(t, r, hex.New(-1, 0), 2, 3, 1)
	a2 := spawnTower(t, r, hex.New(1, 0), 2, 3, 1)
	target := spawnTarget(t, r, hex.Origin, 4)

	var kills []domain.EntityID
	r.BeginTick()
	// Порядок во входе перепутан специально
	shots := ResolveCombat(r, []Engagement{
		{Attacker: a2, Target: target, Distance: 1},
		{Attacker: a1, Target: target, Distance: 1},
	}, func(victim, killer domain.EntityID) { kills = append(kills, killer) })

	require.Len(t, shots, 2)
	assert.Equal(t, a1, shots[0].Attacker)
	assert.Equal(t, 4, shots[0].HPBefore)
	assert.Equal(t, 1, shots[0].HPAfter)
	assert.False(t, shots[0].Killed)

	assert.Equal(t, a2, shots[1].Attacker)
	assert.Equal(t, 1, shots[1].HPBefore)
	assert.Equal(t, 0, shots[1].HPAfter)
	assert.True(t, shots[1].Killed)
	assert.Equal(t, []domain.EntityID{a2}, kills)

	// Цель ещё жива до конца тика
	assert.True(t, r.Alive(target))
	assert.Equal(t, []domain.EntityID{target}, r.EndTick())
}

func TestResolveCombat_OverkillReportedOnce(t *testing.T) {
	r := domain.NewRegistry()
	a1 := spawnTower(t, r, hex.New(-1, 0), 2, 9, 1)
	a2 := spawnTower(t, r, hex.New(1, 0), 2, 9, 1)
	target := spawnTarget(t, r, hex.Origin, 4)

	kills := 0
	r.BeginTick()
	shots := ResolveCombat(r, []Engagement{
		{Attacker: a1, Target: target},
		{Attacker: a2, Target: target},
	}, func(domain.EntityID, domain.EntityID) { kills++ })
	r.EndTick()

	require.Len(t, shots, 2)
	assert.True(t, shots[0].Killed)
	assert.False(t, shots[1].Killed)
	assert.Zero(t, shots[1].HPAfter)
	assert.Equal(t, 1, kills)
}

func TestDamageOf_Rounding(t *testing.T) {
	tests := []struct {
		damage float64
		want   int
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{2.5, 3},
		{2.49, 2},
		{7, 7},
		// Сюда можно попасть, только минуя Validate
		{math.NaN(), 0},
		{math.Inf(1), MaxDamage},
		{math.Inf(-1), 0},
		{-3, 0},
		{1e300, MaxDamage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DamageOf(domain.Shooter{Damage: tt.damage, TicksToFire: 1}), "damage %v", tt.damage)
	}
}

func TestResolveCombat_SkipsVanishedParticipants(t *testing.T) {
	r := domain.NewRegistry()
	tower := spawnTower(t, r, hex.Origin, 2, 1, 1)
	target := spawnTarget(t, r, hex.New(1, 0), 3)
	r.Destroy(target)

	shots := ResolveCombat(r, []Engagement{{Attacker: tower, Target: target}}, nil)
	assert.Empty(t, shots)
}
