package app

import "github.com/plus3/shaderdemos/ecs"

// Time tracks frame timing. Delta is the last frame's step in seconds.
type Time struct {
	Delta   float64
	Elapsed float64
	Frame   uint64
}

// TimeSystem advances Time at the start of every frame.
type TimeSystem struct {
	Time ecs.Singleton[Time]
}

func (s *TimeSystem) Execute(frame *ecs.UpdateFrame) {
	t := s.Time.Get()
	t.Delta = frame.DeltaTime
	t.Elapsed += frame.DeltaTime
	t.Frame++
}
