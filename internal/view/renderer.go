package view

import (
	"fmt"

	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/hex"

	"github.com/gdamore/tcell/v2"
)

var (
	styleGrid   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGoal   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTower  = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Renderer рисует снимок на терминале. Гекс (q, r) попадает в колонку
// 2q + r и строку r относительно центра экрана (axial -> "кирпичная" раскладка).
type Renderer struct {
	screen tcell.Screen
	sound  *Sound
}

func NewRenderer(screen tcell.Screen, sound *Sound) *Renderer {
	return &Renderer{screen: screen, sound: sound}
}

// Cell - экранная клетка гекса c.
func (r *Renderer) Cell(c hex.Coord) (x, y int) {
	w, h := r.screen.Size()
	return w/2 + 2*c.Q + c.R, h/2 + c.R
}

// Draw перерисовывает весь экран по снимку.
func (r *Renderer) Draw(msg api.SnapshotMessage) {
	r.screen.Clear()

	if g := msg.Grid; g != nil && g.Radius > 0 {
		center := hex.New(g.CenterQ, g.CenterR)
		for _, c := range hex.Spiral(center, g.Radius) {
			r.put(c, '·', styleGrid)
		}
	}
	if g := msg.Grid; g != nil {
		r.put(hex.New(g.GoalQ, g.GoalR), 'G', styleGoal)
	}

	for _, e := range msg.Entities {
		glyph, style := entityGlyph(e)
		r.put(hex.New(e.Pos.Q, e.Pos.R), glyph, style)
	}

	r.drawStatus(msg)
	r.screen.Show()

	r.playEvents(msg.Events)
}

func (r *Renderer) put(c hex.Coord, ch rune, style tcell.Style) {
	x, y := r.Cell(c)
	w, h := r.screen.Size()
	if x < 0 || y < 1 || x >= w || y >= h {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *Renderer) drawStatus(msg api.SnapshotMessage) {
	line := fmt.Sprintf("tick %d  entities %d", msg.Tick, len(msg.Entities))
	if s := msg.Stats; s != nil {
		line += fmt.Sprintf("  spawned %d  killed %d  leaked %d  pending %d",
			s.Spawned, s.Killed, s.Leaked, s.Pending)
		if s.NextSpawn != nil {
			line += fmt.Sprintf("  next @%d", *s.NextSpawn)
		}
	}
	line += "  [q] quit"

	w, _ := r.screen.Size()
	for i, ch := range []rune(line) {
		if i >= w {
			break
		}
		r.screen.SetContent(i, 0, ch, nil, styleStatus)
	}
}

func (r *Renderer) playEvents(events []api.EventView) {
	if r.sound == nil {
		return
	}
	for _, ev := range events {
		switch ev.Type {
		case api.EventDeath:
			r.sound.PlayDeath()
		case api.EventLeak:
			r.sound.PlayLeak()
		}
	}
}

// entityGlyph: башня - T, вооруженный юнит - U, остальные ходячие - цифра
// оставшегося здоровья в десятых долях (9 - почти полное).
func entityGlyph(e api.EntityView) (rune, tcell.Style) {
	switch e.Kind {
	case "tower":
		return 'T', styleTower
	case "unit":
		return 'U', healthStyle(e)
	case "creep":
		if e.HP != nil && e.MaxHP != nil && *e.MaxHP > 0 {
			tenth := min(*e.HP*10 / *e.MaxHP, 9)
			return rune('0' + tenth), healthStyle(e)
		}
		return 'c', healthStyle(e)
	default:
		return '?', styleGrid
	}
}

func healthStyle(e api.EntityView) tcell.Style {
	if e.HP == nil || e.MaxHP == nil || *e.MaxHP == 0 {
		return tcell.StyleDefault
	}
	switch frac := float64(*e.HP) / float64(*e.MaxHP); {
	case frac > 0.66:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case frac > 0.33:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
}
