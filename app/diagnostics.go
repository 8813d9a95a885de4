package app

import (
	"github.com/plus3/shaderdemos/ecs"
)

// FrameDiagnostics holds smoothed frame timing.
type FrameDiagnostics struct {
	FPS       float64
	FrameTime float64
	// History holds the most recent frame times in milliseconds, oldest
	// first.
	History []float32
}

const (
	historyLen      = 120
	smoothingFactor = 0.1
)

func (d *FrameDiagnostics) record(dt float64) {
	if dt <= 0 {
		return
	}
	if d.FrameTime == 0 {
		d.FrameTime = dt
	} else {
		d.FrameTime += (dt - d.FrameTime) * smoothingFactor
	}
	d.FPS = 1 / d.FrameTime

	if len(d.History) == historyLen {
		copy(d.History, d.History[1:])
		d.History = d.History[:historyLen-1]
	}
	d.History = append(d.History, float32(dt*1000))
}

// DiagnosticsPlugin tracks frame timing and logs it every Interval seconds.
// A zero Interval disables logging.
type DiagnosticsPlugin struct {
	Interval float64
}

func (p DiagnosticsPlugin) Build(a *App) {
	ecs.NewSingleton[FrameDiagnostics](a.Storage)
	a.AddSystems(Update, &diagnosticsSystem{
		timer: NewTimer(p.Interval, Repeating),
		log:   p.Interval > 0,
	})
}

type diagnosticsSystem struct {
	Diagnostics ecs.Singleton[FrameDiagnostics]
	Time        ecs.Singleton[Time]

	timer Timer
	log   bool
}

func (s *diagnosticsSystem) Execute(frame *ecs.UpdateFrame) {
	d := s.Diagnostics.Get()
	d.record(frame.DeltaTime)
	if !s.log || !s.timer.Tick(frame.DeltaTime).JustFinished() {
		return
	}
	Logger().Info("frame diagnostics",
		"fps", d.FPS,
		"frame_time_ms", d.FrameTime*1000,
		"frame", s.Time.Get().Frame,
		"entities", frame.Storage.CollectStats().TotalEntityCount,
	)
}
