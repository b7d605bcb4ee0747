// Package hex - аксиальные координаты гексагональной сетки.
//
// Координата хранит пару (q, r). Третья кубическая координата s = -q-r
// никогда не хранится, а только вычисляется. Ось r растёт "вниз" по экрану,
// поэтому соседи перечисляются по часовой стрелке, начиная с востока.
package hex

import "fmt"

// Coord - позиция на гексагональной сетке в аксиальной форме.
type Coord struct {
	Q int `json:"q" mapstructure:"q"`
	R int `json:"r" mapstructure:"r"`
}

// Origin - центр сетки.
var Origin = Coord{}

// Направления соседей по часовой стрелке, начиная с востока.
// Порядок фиксирован: от него зависит детерминизм шага движения.
var directions = [6]Coord{
	{Q: 1, R: 0},  // E
	{Q: 0, R: 1},  // SE
	{Q: -1, R: 1}, // SW
	{Q: -1, R: 0}, // W
	{Q: 0, R: -1}, // NW
	{Q: 1, R: -1}, // NE
}

// New - короткий конструктор.
func New(q, r int) Coord {
	return Coord{Q: q, R: r}
}

// S возвращает неявную третью кубическую координату.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add складывает две координаты.
func Add(a, b Coord) Coord {
	return Coord{Q: a.Q + b.Q, R: a.R + b.R}
}

// Sub вычитает b из a.
func Sub(a, b Coord) Coord {
	return Coord{Q: a.Q - b.Q, R: a.R - b.R}
}

// Scale умножает вектор на целое число.
func Scale(a Coord, k int) Coord {
	return Coord{Q: a.Q * k, R: a.R * k}
}

// Distance - число шагов между двумя гексами. Всегда >= 0.
func Distance(a, b Coord) int {
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.Q+a.R-b.Q-b.R)) / 2
}

// Direction возвращает единичный вектор i-го направления (i по модулю 6).
func Direction(i int) Coord {
	i %= 6
	if i < 0 {
		i += 6
	}
	return directions[i]
}

// Neighbors возвращает 6 соседей в фиксированном порядке: E, SE, SW, W, NW, NE.
func Neighbors(c Coord) [6]Coord {
	var result [6]Coord
	for i, dir := range directions {
		result[i] = Add(c, dir)
	}
	return result
}

// Ring возвращает гексы на расстоянии ровно radius от center.
// Обход начинается с западного угла (как у redblob) и идёт по часовой стрелке
// в терминах Neighbors. radius == 0 даёт сам центр.
func Ring(center Coord, radius int) []Coord {
	if radius <= 0 {
		return []Coord{center}
	}

	result := make([]Coord, 0, 6*radius)
	cur := Add(center, Scale(Direction(3), radius))
	for side := 0; side < 6; side++ {
		// Со стороны W идём на NE, затем E, SE, SW, W, NW.
		dir := Direction(side + 5)
		for step := 0; step < radius; step++ {
			result = append(result, cur)
			cur = Add(cur, dir)
		}
	}
	return result
}

// Spiral возвращает все гексы в радиусе radius, кольцо за кольцом от центра.
func Spiral(center Coord, radius int) []Coord {
	result := []Coord{center}
	for k := 1; k <= radius; k++ {
		result = append(result, Ring(center, k)...)
	}
	return result
}

// String для логов: (q,r)
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
