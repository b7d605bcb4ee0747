package view

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sound - короткие сигналы на события снимка. Без инициализации все Play* молчат,
// так что зритель работает и на машинах без аудиоустройства.
type Sound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSound() *Sound {
	return &Sound{mixer: &beep.Mixer{}}
}

// Init открывает аудиоустройство.
func (s *Sound) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close глушит всё, что ещё звучит.
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.mixer.Clear()
	s.initialized = false
}

// PlayDeath - нисходящий сигнал на смерть юнита.
func (s *Sound) PlayDeath() {
	s.play(newTone(660, 330, 120*time.Millisecond, sampleRate))
}

// PlayLeak - низкий гул, когда юнит дошел до цели.
func (s *Sound) PlayLeak() {
	s.play(newTone(140, 110, 250*time.Millisecond, sampleRate))
}

func (s *Sound) play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.mixer.Add(st)
}

// tone - синус со скольжением частоты от from к to и затуханием.
type tone struct {
	from, to float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newTone(from, to float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{from: from, to: to, duration: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}

		progress := float64(t.position) / float64(t.duration)
		freq := t.from + (t.to-t.from)*progress
		envelope := 0.25 * (1 - progress)

		val := envelope * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
