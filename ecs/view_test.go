package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/shaderdemos/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movingView struct {
	Id ecs.EntityId
	*Position
	*Velocity
}

type labelledView struct {
	*Position
	Label *Label `ecs:"optional"`
}

func TestViewGetFillsEntityId(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	other := storage.Spawn(Position{X: 3})

	got := view.Get(id)
	require.NotNil(t, got)
	assert.Equal(t, id, got.Id)
	assert.Equal(t, float32(1), got.Position.X)
	assert.Equal(t, float32(2), got.Velocity.DX)

	assert.Nil(t, view.Get(other), "missing required component")
	assert.Nil(t, view.Get(ecs.NewEntityId(12345, 0)))
}

func TestViewIterSkipsNonMatching(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	want := []ecs.EntityId{
		storage.Spawn(Position{}, Velocity{}),
		storage.Spawn(Position{}, Velocity{}, Label("a")),
	}
	storage.Spawn(Position{})
	storage.Spawn(Velocity{})

	var got []ecs.EntityId
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.Id)
		got = append(got, id)
	}
	assert.ElementsMatch(t, want, got)
}

func TestViewOptionalField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[labelledView](storage)

	storage.Spawn(Position{X: 1}, Label("named"))
	storage.Spawn(Position{X: 2})

	var labels []string
	for item := range view.Values() {
		if item.Label == nil {
			labels = append(labels, "")
		} else {
			labels = append(labels, string(*item.Label))
		}
	}
	slices.Sort(labels)
	assert.Equal(t, []string{"", "named"}, labels)
}

func TestViewMutationWritesThrough(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	id := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})
	for item := range view.Values() {
		item.Position.X += item.Velocity.DX
		item.Position.Y += item.Velocity.DY
	}

	assert.Equal(t, Position{X: 1, Y: 2}, *ecs.ReadComponent[Position](storage, id))
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[labelledView](storage)

	plain := view.Spawn(labelledView{Position: &Position{X: 5}})
	named := view.Spawn(labelledView{Position: &Position{X: 6}, Label: ptr(Label("n"))})

	assert.NotEqual(t, plain.ArchetypeId(), named.ArchetypeId())
	assert.Equal(t, float32(5), view.Get(plain).Position.X)
	assert.Equal(t, Label("n"), *view.Get(named).Label)

	assert.Panics(t, func() { view.Spawn(labelledView{}) })
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	ref := storage.CreateEntityRef(storage.Spawn(Position{}, Velocity{}))
	require.NotNil(t, view.GetRef(ref))

	storage.Delete(ref.Id)
	assert.Nil(t, view.GetRef(ref))
}

func TestViewRejectsBadLayouts(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[Position](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			A, B ecs.EntityId
		}](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"maybe"`
		}](storage)
	})
}

func ptr[T any](v T) *T {
	return &v
}
