package server

import (
	"encoding/json"
	"net/http"

	"hexdefense-server/internal/scenario"
	"hexdefense-server/pkg/api"
)

// ScheduleSource - оставшееся расписание волн (scenario.Spawner).
type ScheduleSource interface {
	Schedule() []scenario.ScheduledSpawn
}

// DebugHandler предоставляет доступ к состоянию симуляции.
// Читает только опубликованные снимки, реестр не трогает.
type DebugHandler struct {
	Source   SnapshotSource
	Schedule ScheduleSource
}

func NewDebugHandler(source SnapshotSource, schedule ScheduleSource) *DebugHandler {
	return &DebugHandler{Source: source, Schedule: schedule}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/spawns", h.handleSpawns)
}

// /debug/entities?kind=tower - сущности последнего снимка (с фильтром по виду)
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	snap := h.Source.Last()
	kind := r.URL.Query().Get("kind")

	type EntitiesDump struct {
		Tick     uint64           `json:"tick"`
		Stats    *api.StatsView   `json:"stats,omitempty"`
		Entities []api.EntityView `json:"entities"`
	}

	dump := EntitiesDump{Tick: snap.Tick, Stats: snap.Stats, Entities: []api.EntityView{}}
	for _, e := range snap.Entities {
		if kind == "" || e.Kind == kind {
			dump.Entities = append(dump.Entities, e)
		}
	}

	writeJSON(w, dump)
}

// /debug/spawns - кто и когда ещё появится
func (h *DebugHandler) handleSpawns(w http.ResponseWriter, r *http.Request) {
	if h.Schedule == nil {
		writeJSON(w, nil)
		return
	}

	schedule := h.Schedule.Schedule()
	if len(schedule) == 0 {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, schedule)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустое расписание), возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
