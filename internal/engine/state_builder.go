package engine

import (
	"strconv"

	"hexdefense-server/internal/domain"
	"hexdefense-server/pkg/api"
)

// Stats - накопительная статистика прогона.
type Stats struct {
	Spawned int
	Killed  int
	Leaked  int
}

// SpawnQueue - остаток расписания волн на момент снимка.
type SpawnQueue struct {
	Pending  int
	NextTick uint64
	HasNext  bool
}

// BuildSnapshotMessage собирает DTO для клиента из снимка и событий.
func BuildSnapshotMessage(snap Snapshot, events []api.EventView, stats Stats, queue SpawnQueue, grid *api.GridMeta) api.SnapshotMessage {
	msg := api.SnapshotMessage{
		Type:     api.MessageSnapshot,
		Tick:     snap.Tick,
		Grid:     grid,
		Entities: make([]api.EntityView, 0, len(snap.Entities)),
		Events:   events,
		Stats: &api.StatsView{
			Spawned: stats.Spawned,
			Killed:  stats.Killed,
			Leaked:  stats.Leaked,
			Alive:   len(snap.Entities),
			Pending: queue.Pending,
		},
	}
	if queue.HasNext {
		next := queue.NextTick
		msg.Stats.NextSpawn = &next
	}

	for _, e := range snap.Entities {
		msg.Entities = append(msg.Entities, buildEntityView(e))
	}
	return msg
}

func buildEntityView(e EntityState) api.EntityView {
	var v api.EntityView
	v.ID = idString(e.ID)
	v.Kind = entityKind(e)
	v.Pos.Q = e.Position.X
	v.Pos.R = e.Position.Y

	if e.Health != nil {
		hp, maxHP := e.Health.Current, e.Health.Max
		v.HP = &hp
		v.MaxHP = &maxHP
	}
	if e.Shooter != nil {
		rng := e.Shooter.Range
		v.Range = &rng
	}
	if e.Faction != nil {
		team := e.Faction.Team
		v.Team = &team
	}
	return v
}

func entityKind(e EntityState) string {
	switch {
	case e.Shooter != nil && e.Shooter.Role == domain.AttackerTower:
		return "tower"
	case e.Shooter != nil:
		return "unit"
	case e.Mobile:
		return "creep"
	default:
		return "entity"
	}
}

// reportEvents переводит отчёт тика в события протокола.
func reportEvents(rep TickReport) []api.EventView {
	events := make([]api.EventView, 0, len(rep.Shots)+len(rep.Destroyed))
	for _, s := range rep.Shots {
		events = append(events, api.EventView{
			Type:     api.EventShot,
			Entity:   idString(s.Target),
			Attacker: idString(s.Attacker),
			Damage:   s.Damage,
			HPAfter:  s.HPAfter,
		})
	}
	for _, id := range rep.Destroyed {
		events = append(events, api.EventView{Type: api.EventDeath, Entity: idString(id)})
	}
	return events
}

func idEvents(kind string, ids []domain.EntityID) []api.EventView {
	events := make([]api.EventView, 0, len(ids))
	for _, id := range ids {
		events = append(events, api.EventView{Type: kind, Entity: idString(id)})
	}
	return events
}

func idString(id domain.EntityID) string {
	return strconv.FormatUint(uint64(id), 10)
}
