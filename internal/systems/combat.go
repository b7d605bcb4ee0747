package systems

import (
	"math"
	"sort"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MaxDamage - потолок урона одного выстрела.
const MaxDamage = math.MaxInt32

// Shot - один выстрел, состоявшийся в этом тике.
type Shot struct {
	Attacker domain.EntityID `json:"attacker"`
	Target   domain.EntityID `json:"target"`
	Damage   int             `json:"damage"`
	HPBefore int             `json:"hpBefore"`
	HPAfter  int             `json:"hpAfter"`
	Killed   bool            `json:"killed"` // Этот выстрел пометил цель на удаление
}

// KillFunc вызывается, когда цель впервые помечена на удаление.
type KillFunc func(target, killer domain.EntityID)

// DamageOf переводит урон стрелка в целые очки здоровья:
// округление до ближайшего, половина - от нуля.
// Результат всегда в [0, MaxDamage], даже если Validate обошли.
func DamageOf(s domain.Shooter) int {
	d := math.Round(s.Damage)
	if math.IsNaN(d) || d <= 0 {
		return 0
	}
	return int(min(d, MaxDamage))
}

// ResolveCombat продвигает перезарядку стрелков, у которых есть цель, и
// применяет урон при срабатывании. Порядок - по возрастанию ID стрелка,
// поэтому одновременные попадания по одной цели детерминированы.
//
// Здоровье не опускается ниже нуля. Цель с HP <= 0 уничтожается через
// реестр: во время тика это отложенное удаление, так что следующие стрелки
// этого тика всё ещё видят её.
func ResolveCombat(r *domain.Registry, engagements []Engagement, onKill KillFunc) []Shot {
	ordered := make([]Engagement, len(engagements))
	copy(ordered, engagements)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Attacker < ordered[j].Attacker })

	var shots []Shot
	for _, e := range ordered {
		s := r.ShooterRef(e.Attacker)
		hp := r.HealthRef(e.Target)
		if s == nil || hp == nil {
			continue
		}

		s.TicksPassed++
		if s.TicksPassed < s.TicksToFire {
			continue
		}
		s.TicksPassed = 0

		shots = append(shots, applyShot(r, e, *s, hp, onKill))
	}
	return shots
}

func applyShot(r *domain.Registry, e Engagement, s domain.Shooter, hp *domain.Health, onKill KillFunc) Shot {
	damage := DamageOf(s)

	shot := Shot{
		Attacker: e.Attacker,
		Target:   e.Target,
		Damage:   damage,
		HPBefore: hp.Current,
	}

	hp.Current -= damage
	if hp.Current < 0 {
		hp.Current = 0
	}
	shot.HPAfter = hp.Current

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": e.Attacker,
		"attacker":    s.Role.String(),
		"target_id":   e.Target,
		"distance":    e.Distance,
	})

	if hp.IsDead() && !r.PendingDestroy(e.Target) {
		shot.Killed = true
		r.Destroy(e.Target)
		if onKill != nil {
			onKill(e.Target, e.Attacker)
		}
	}

	combatLogger.WithFields(logrus.Fields{
		"damage":      damage,
		"hp_before":   shot.HPBefore,
		"hp_after":    shot.HPAfter,
		"target_died": shot.Killed,
	}).Debug("Shot resolved.")

	return shot
}
