package systems

import (
	"hexdefense-server/internal/domain"
)

// Engagement - выбор цели одним стрелком на текущий тик.
// Не сохраняется между тиками: цель выбирается заново каждый тик.
type Engagement struct {
	Attacker domain.EntityID
	Target   domain.EntityID
	Distance int
}

// FindTargets для каждого стрелка (Shooter + Position) выбирает ближайшую
// цель (Health + Position) в пределах Range.
//
// Правила:
//   - стрелок не стреляет в себя;
//   - если у обоих есть Faction с одной командой, это союзник;
//   - при равной дистанции побеждает меньший ID.
//
// Стрелок без цели просто простаивает, в результат он не попадает.
// Результат упорядочен по возрастанию ID стрелка.
func FindTargets(r *domain.Registry) []Engagement {
	// Кандидаты уже идут по возрастанию ID, поэтому строгое "<" даёт тай-брейк
	candidates := r.Collect(domain.SetTarget)
	if len(candidates) == 0 {
		return nil
	}

	var out []Engagement
	for attacker := range r.IterateWith(domain.SetAttacker) {
		if e, ok := nearestTarget(r, attacker, candidates); ok {
			out = append(out, e)
		}
	}
	return out
}

func nearestTarget(r *domain.Registry, attacker domain.EntityID, candidates []domain.EntityID) (Engagement, bool) {
	shooter, _ := r.Shooter(attacker)
	pos, _ := r.Position(attacker)
	team, hasTeam := r.Faction(attacker)

	best := Engagement{Attacker: attacker}
	found := false

	for _, c := range candidates {
		if c == attacker {
			continue
		}
		if hasTeam {
			if other, ok := r.Faction(c); ok && other.Team == team.Team {
				continue
			}
		}

		cpos, ok := r.Position(c)
		if !ok {
			continue
		}

		dist := pos.DistanceTo(cpos)
		if dist > shooter.Range {
			continue
		}
		if !found || dist < best.Distance {
			best.Target = c
			best.Distance = dist
			found = true
		}
	}

	return best, found
}
