package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/shaderdemos/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsAreDeferred(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	victim := storage.Spawn(Label("victim"))

	var seenDuringPass bool
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Delete(victim)
		frame.Commands.Spawn(Label("spawned"))
		assert.Equal(t, 2, frame.Commands.Len())
		seenDuringPass = ecs.ReadComponent[Label](storage, victim) != nil
	}))
	scheduler.Once(0)

	assert.True(t, seenDuringPass)
	assert.Nil(t, ecs.ReadComponent[Label](storage, victim))
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}

func TestCommandsDropChangesToDeletedEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(id, Velocity{})
		frame.Commands.RemoveComponent(id, reflect.TypeFor[Position]())
		frame.Commands.Delete(id)
	}))
	scheduler.Once(0)

	assert.Equal(t, 0, storage.CollectStats().TotalEntityCount)
}

func TestCommandsFollowMovedEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.RemoveComponent(id, reflect.TypeFor[Velocity]())
		frame.Commands.AddComponent(id, Frozen{})
	}))
	scheduler.Once(0)

	archetype := storage.GetArchetype(Position{}, Frozen{})
	require.NotNil(t, archetype)
	assert.Equal(t, 1, archetype.Count())
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	var observed bool
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Defer(func() {
			observed = storage.GetArchetype(Position{}, Frozen{}) != nil
		})
		frame.Commands.AddComponent(id, Frozen{})
	}))
	scheduler.Once(0)

	assert.True(t, observed)
}
