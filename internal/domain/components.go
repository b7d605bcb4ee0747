package domain

import (
	"errors"
	"fmt"
	"math"

	"hexdefense-server/pkg/hex"
)

// --- КОМПОНЕНТЫ ---
//
// Компоненты - чистые данные без поведения. Поведение живёт в internal/systems.
// Каждый компонент умеет проверить свои инварианты (Validate): код настройки,
// который читает пользовательский ввод, получает ошибку, а Registry.Attach
// считает нарушение инварианта ошибкой программиста и паникует.

// ErrInvalidComponent оборачивает все ошибки валидации компонентов.
var ErrInvalidComponent = errors.New("invalid component")

// Component - общий интерфейс всех компонентов реестра.
type Component interface {
	Kind() ComponentKind
	Validate() error
}

// Position - позиция на гекс-сетке. Логически это hex.Coord: X = q, Y = r.
// Меняется только MovementSystem.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PositionAt строит позицию из гекс-координаты.
func PositionAt(c hex.Coord) Position {
	return Position{X: c.Q, Y: c.R}
}

// Coord возвращает позицию как гекс-координату.
func (p Position) Coord() hex.Coord {
	return hex.Coord{Q: p.X, R: p.Y}
}

// DistanceTo возвращает гекс-расстояние до другой позиции.
func (p Position) DistanceTo(other Position) int {
	return hex.Distance(p.Coord(), other.Coord())
}

func (Position) Kind() ComponentKind { return KindPosition }
func (Position) Validate() error     { return nil }

// Move - темп ходьбы: шаг на один гекс каждые TicksToMove тиков.
type Move struct {
	TicksPassed int `json:"ticksPassed"`
	TicksToMove int `json:"ticksToMove"`
}

func (Move) Kind() ComponentKind { return KindMove }

func (m Move) Validate() error {
	if m.TicksToMove <= 0 {
		return fmt.Errorf("%w: move: ticksToMove must be > 0, got %d", ErrInvalidComponent, m.TicksToMove)
	}
	if m.TicksPassed < 0 || m.TicksPassed > m.TicksToMove {
		return fmt.Errorf("%w: move: ticksPassed %d out of [0, %d]", ErrInvalidComponent, m.TicksPassed, m.TicksToMove)
	}
	return nil
}

// AttackerKind - явная метка роли стрелка.
// Башня и мобильный юнит имеют одинаковые поля и одинаковую логику стрельбы.
type AttackerKind uint8

const (
	AttackerTower AttackerKind = iota // Стационарная башня
	AttackerUnit                      // Мобильный юнит со своим оружием
)

func (k AttackerKind) String() string {
	switch k {
	case AttackerTower:
		return "tower"
	case AttackerUnit:
		return "unit"
	default:
		return fmt.Sprintf("attacker(%d)", uint8(k))
	}
}

// Shooter - дальняя атака с перезарядкой.
// TicksPassed меняет CombatSystem, Range читает TargetingSystem.
type Shooter struct {
	Role        AttackerKind `json:"role"`
	Range       int          `json:"range"`
	Damage      float64      `json:"damage"`
	TicksToFire int          `json:"ticksToFire"`
	TicksPassed int          `json:"ticksPassed"`
}

func (Shooter) Kind() ComponentKind { return KindShooter }

func (s Shooter) Validate() error {
	switch {
	case s.TicksToFire <= 0:
		return fmt.Errorf("%w: shooter: ticksToFire must be > 0, got %d", ErrInvalidComponent, s.TicksToFire)
	case s.TicksPassed < 0 || s.TicksPassed > s.TicksToFire:
		return fmt.Errorf("%w: shooter: ticksPassed %d out of [0, %d]", ErrInvalidComponent, s.TicksPassed, s.TicksToFire)
	case s.Range < 0:
		return fmt.Errorf("%w: shooter: negative range %d", ErrInvalidComponent, s.Range)
	case math.IsNaN(s.Damage) || math.IsInf(s.Damage, 0):
		return fmt.Errorf("%w: shooter: damage must be finite, got %v", ErrInvalidComponent, s.Damage)
	case s.Damage < 0:
		return fmt.Errorf("%w: shooter: negative damage %v", ErrInvalidComponent, s.Damage)
	}
	return nil
}

// Health - очки здоровья. Меняется только CombatSystem.
type Health struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// FullHealth - здоровье, заполненное до максимума.
func FullHealth(max int) Health {
	return Health{Current: max, Max: max}
}

func (Health) Kind() ComponentKind { return KindHealth }

func (h Health) Validate() error {
	if h.Current < 0 || h.Current > h.Max {
		return fmt.Errorf("%w: health: current %d out of [0, %d]", ErrInvalidComponent, h.Current, h.Max)
	}
	return nil
}

// IsDead - здоровье исчерпано.
func (h Health) IsDead() bool {
	return h.Current <= 0
}

// Path - маршрут по точкам. Index указывает на следующую точку.
type Path struct {
	Hexes []hex.Coord `json:"hexes"`
	Index int         `json:"index"`
}

func (Path) Kind() ComponentKind { return KindPath }

func (p Path) Validate() error {
	if p.Index < 0 || p.Index > len(p.Hexes) {
		return fmt.Errorf("%w: path: index %d out of [0, %d]", ErrInvalidComponent, p.Index, len(p.Hexes))
	}
	return nil
}

// Next возвращает текущую точку маршрута, если маршрут не пройден.
func (p Path) Next() (hex.Coord, bool) {
	if p.Index >= len(p.Hexes) {
		return hex.Coord{}, false
	}
	return p.Hexes[p.Index], true
}

// Done - все точки пройдены.
func (p Path) Done() bool {
	return p.Index >= len(p.Hexes)
}

// Goal - назначенная цель движения, если маршрута нет или он пройден.
type Goal struct {
	Target hex.Coord `json:"target"`
}

func (Goal) Kind() ComponentKind { return KindGoal }
func (Goal) Validate() error     { return nil }

// Faction - команда. Стрелок не выбирает целью сущность своей команды.
type Faction struct {
	Team int `json:"team"`
}

func (Faction) Kind() ComponentKind { return KindFaction }
func (Faction) Validate() error     { return nil }
