package api

// ProtocolVersion растёт при любом несовместимом изменении DTO ниже.
const ProtocolVersion = 1

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера.
const (
	MessageSnapshot = "SNAPSHOT"
)

// Типы событий внутри снимка.
const (
	EventShot  = "SHOT"
	EventDeath = "DEATH"
	EventSpawn = "SPAWN"
	EventLeak  = "LEAK"
)

// SnapshotMessage это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" симуляции после завершённого тика.
// Слой отрисовки читает его и никогда не меняет состояние симуляции.
type SnapshotMessage struct {
	// Type тип сообщения. На данный момент всегда "SNAPSHOT".
	Type string `json:"type"`

	// Tick номер последнего завершённого тика.
	Tick uint64 `json:"tick"`

	// Grid метаданные поля, чтобы клиент знал, какую сетку готовить.
	Grid *GridMeta `json:"grid,omitempty"`

	// Entities все сущности с позицией, по возрастанию ID.
	Entities []EntityView `json:"entities"`

	// Events что произошло за этот тик (и между тиками: спавн, утечки).
	Events []EventView `json:"events,omitempty"`

	// Stats накопительная статистика прогона.
	Stats *StatsView `json:"stats,omitempty"`
}

// GridMeta описывает гексагональное поле: центр и радиус.
type GridMeta struct {
	CenterQ int `json:"cq"`
	CenterR int `json:"cr"`
	Radius  int `json:"radius"`

	// Goal гекс, к которому идут волны.
	GoalQ int `json:"gq"`
	GoalR int `json:"gr"`
}

// EntityView это DTO для сущности симуляции.
type EntityView struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // tower, unit, creep, entity

	Pos struct {
		Q int `json:"q"`
		R int `json:"r"`
	} `json:"pos"`

	// HP и MaxHP есть только у сущностей со здоровьем.
	HP    *int `json:"hp,omitempty"`
	MaxHP *int `json:"maxHp,omitempty"`

	// Range радиус стрельбы (для подсветки зоны башни).
	Range *int `json:"range,omitempty"`

	Team *int `json:"team,omitempty"`
}

// EventView это DTO для одного события.
// Damage и HPAfter имеют смысл только для SHOT и передаются всегда,
// даже нулевые: hpAfter 0 означает смертельный выстрел.
type EventView struct {
	Type     string `json:"type"`
	Entity   string `json:"entity,omitempty"`
	Attacker string `json:"attacker,omitempty"`
	Damage   int    `json:"damage"`
	HPAfter  int    `json:"hpAfter"`
}

// StatsView накопительная статистика.
type StatsView struct {
	Spawned int `json:"spawned"`
	Killed  int `json:"killed"`
	Leaked  int `json:"leaked"`
	Alive   int `json:"alive"`
	Pending int `json:"pending"` // Сколько ещё осталось заспавнить

	// NextSpawn тик ближайшего спавна. Нет поля - расписание пусто.
	NextSpawn *uint64 `json:"nextSpawn,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Действия клиента.
const (
	ActionSync = "SYNC" // Прислать последний снимок немедленно
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Зритель не управляет симуляцией, поэтому команды только служебные.
type ClientCommand struct {
	Action string `json:"action"`
}
