package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/shaderdemos/ecs"
	"github.com/stretchr/testify/assert"
)

type hitEvent struct {
	Damage int
}

func TestEventsLiveForTwoUpdates(t *testing.T) {
	var events ecs.Events[hitEvent]

	events.Send(hitEvent{1})
	assert.Equal(t, 1, events.Len())

	events.Update()
	events.Send(hitEvent{2})
	assert.Equal(t, 2, events.Len())

	events.Update()
	assert.Equal(t, 1, events.Len())

	events.Update()
	assert.Equal(t, 0, events.Len())
}

func TestEventReaderCursor(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	var writer ecs.EventWriter[hitEvent]
	writer.Init(storage)

	first := ecs.NewEventReader[hitEvent](storage)
	second := ecs.NewEventReader[hitEvent](storage)

	writer.Send(hitEvent{1})
	writer.Send(hitEvent{2})
	assert.Equal(t, 2, first.Len())

	assert.Equal(t, []hitEvent{{1}, {2}}, slices.Collect(first.Read()))
	assert.Empty(t, slices.Collect(first.Read()))

	writer.Send(hitEvent{3})
	assert.Equal(t, []hitEvent{{3}}, slices.Collect(first.Read()))
	assert.Equal(t, []hitEvent{{1}, {2}, {3}}, slices.Collect(second.Read()))
}

func TestEventReaderEarlyBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	var writer ecs.EventWriter[hitEvent]
	writer.Init(storage)
	reader := ecs.NewEventReader[hitEvent](storage)

	writer.Send(hitEvent{1})
	writer.Send(hitEvent{2})

	for range reader.Read() {
		break
	}
	assert.Equal(t, 1, reader.Len())
	assert.Equal(t, []hitEvent{{2}}, slices.Collect(reader.Read()))
}

type hitSender struct {
	Hits ecs.EventWriter[hitEvent]
}

func (s *hitSender) Execute(*ecs.UpdateFrame) {
	s.Hits.Send(hitEvent{Damage: 5})
}

type hitCounter struct {
	Hits  ecs.EventReader[hitEvent]
	total int
}

func (s *hitCounter) Execute(*ecs.UpdateFrame) {
	for hit := range s.Hits.Read() {
		s.total += hit.Damage
	}
}

func TestEventsThroughScheduler(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &hitCounter{}
	scheduler.Register(&ecs.EventUpdateSystem[hitEvent]{})
	scheduler.Register(&hitSender{})
	scheduler.Register(counter)

	for range 4 {
		scheduler.Once(0)
	}

	assert.Equal(t, 20, counter.total)
	assert.LessOrEqual(t, ecs.NewSingleton[ecs.Events[hitEvent]](storage).Get().Len(), 2)
}
