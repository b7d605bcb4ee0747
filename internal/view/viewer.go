package view

import (
	"context"

	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"

	"github.com/gdamore/tcell/v2"
)

// Viewer - цикл терминального зрителя: рисует снимки из канала и
// выходит по q, Esc или Ctrl-C.
type Viewer struct {
	screen   tcell.Screen
	renderer *Renderer
	last     *api.SnapshotMessage
}

func NewViewer(screen tcell.Screen, sound *Sound) *Viewer {
	return &Viewer{
		screen:   screen,
		renderer: NewRenderer(screen, sound),
	}
}

// Run блокируется, пока пользователь не выйдет, ctx не отменят
// или канал снимков не закроется. Экран инициализирует вызывающий.
func (v *Viewer) Run(ctx context.Context, snapshots <-chan api.SnapshotMessage) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-snapshots:
			if !ok {
				logger.Log.Info("Snapshot stream closed")
				return
			}
			v.last = &msg
			v.renderer.Draw(msg)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return
				}
			case *tcell.EventResize:
				v.screen.Sync()
				if v.last != nil {
					v.renderer.Draw(*v.last)
				}
			}
		}
	}
}
