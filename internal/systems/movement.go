package systems

import (
	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/hex"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MovementResult - итог прохода MovementSystem за тик.
type MovementResult struct {
	Stepped []domain.EntityID // Кто сделал шаг, по возрастанию ID
	Arrived []domain.EntityID // Кто после шага стоит на своей цели
}

// StepToward возвращает соседа from, ближайшего к to.
// При равенстве побеждает сосед, идущий раньше в hex.Neighbors.
// Если from == to, шага нет.
func StepToward(from, to hex.Coord) hex.Coord {
	if from == to {
		return from
	}

	best := from
	bestDist := hex.Distance(from, to)
	for _, n := range hex.Neighbors(from) {
		if d := hex.Distance(n, to); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// RunMovement продвигает счётчики Move и двигает сущности на один гекс,
// когда счётчик доходит до TicksToMove.
//
// Цель шага - текущая точка маршрута (Path), а если маршрута нет или он
// пройден - Goal. Без цели сущность стоит, но счётчик всё равно сбрасывается.
func RunMovement(r *domain.Registry) MovementResult {
	var res MovementResult

	for id := range r.IterateWith(domain.SetMover) {
		m := r.MoveRef(id)
		m.TicksPassed++
		if m.TicksPassed < m.TicksToMove {
			continue
		}
		m.TicksPassed = 0

		pos := r.PositionRef(id)
		from := pos.Coord()

		target, ok := waypoint(r, id, from)
		if !ok {
			continue
		}

		next := StepToward(from, target)
		if next == from {
			continue
		}
		*pos = domain.PositionAt(next)
		res.Stepped = append(res.Stepped, id)

		if _, ok := waypoint(r, id, next); !ok {
			res.Arrived = append(res.Arrived, id)
		}

		logger.Log.WithFields(logrus.Fields{
			"component": "movement_system",
			"entity_id": id,
			"from":      from.String(),
			"to":        next.String(),
		}).Trace("Entity stepped.")
	}

	return res
}

// waypoint возвращает, куда сущность должна идти из at.
// Точки маршрута, на которых она уже стоит, считаются пройденными.
func waypoint(r *domain.Registry, id domain.EntityID, at hex.Coord) (hex.Coord, bool) {
	if p := r.PathRef(id); p != nil {
		for {
			next, ok := p.Next()
			if !ok {
				break
			}
			if next != at {
				return next, true
			}
			p.Index++
		}
	}

	if g, ok := r.Goal(id); ok && g.Target != at {
		return g.Target, true
	}
	return hex.Coord{}, false
}

// AtDestination - стоит ли сущность в конце своего пути: маршрут (если есть)
// пройден и цель (если есть) достигнута. Сущность без Path и Goal
// назначения не имеет.
func AtDestination(r *domain.Registry, id domain.EntityID) bool {
	pos, ok := r.Position(id)
	if !ok {
		return false
	}

	p, hasPath := r.Path(id)
	g, hasGoal := r.Goal(id)
	if !hasPath && !hasGoal {
		return false
	}

	if hasPath {
		rest := p.Hexes[min(p.Index, len(p.Hexes)):]
		if len(rest) > 1 || (len(rest) == 1 && rest[0] != pos.Coord()) {
			return false
		}
	}
	if hasGoal {
		return g.Target == pos.Coord()
	}
	return true
}
