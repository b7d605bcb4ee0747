package domain

import "strings"

// ComponentKind - битовый флаг типа компонента.
type ComponentKind uint16

const (
	KindPosition ComponentKind = 1 << iota
	KindMove
	KindShooter
	KindHealth
	KindPath
	KindGoal
	KindFaction
)

var kindNames = []struct {
	kind ComponentKind
	name string
}{
	{KindPosition, "position"},
	{KindMove, "move"},
	{KindShooter, "shooter"},
	{KindHealth, "health"},
	{KindPath, "path"},
	{KindGoal, "goal"},
	{KindFaction, "faction"},
}

func (k ComponentKind) String() string {
	for _, kn := range kindNames {
		if kn.kind == k {
			return kn.name
		}
	}
	return "unknown"
}

// ComponentSet - набор типов компонентов (битовая маска).
type ComponentSet uint16

// Наборы, которые используют системы.
var (
	SetMover    = NewComponentSet(KindPosition, KindMove)
	SetAttacker = NewComponentSet(KindPosition, KindShooter)
	SetTarget   = NewComponentSet(KindPosition, KindHealth)
)

// NewComponentSet собирает набор из перечисленных типов.
func NewComponentSet(kinds ...ComponentKind) ComponentSet {
	var s ComponentSet
	for _, k := range kinds {
		s |= ComponentSet(k)
	}
	return s
}

// Has - входит ли тип в набор.
func (s ComponentSet) Has(k ComponentKind) bool {
	return s&ComponentSet(k) != 0
}

// Contains - является ли s надмножеством other.
func (s ComponentSet) Contains(other ComponentSet) bool {
	return s&other == other
}

// Kinds раскладывает набор на отдельные типы в порядке объявления.
func (s ComponentSet) Kinds() []ComponentKind {
	var out []ComponentKind
	for _, kn := range kindNames {
		if s.Has(kn.kind) {
			out = append(out, kn.kind)
		}
	}
	return out
}

// String для логов: position|move
func (s ComponentSet) String() string {
	kinds := s.Kinds()
	if len(kinds) == 0 {
		return "{}"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}
