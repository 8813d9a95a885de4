package ecs

import (
	"iter"
	"reflect"
)

// componentColumn is one type-erased component column of an archetype.
// Indices are slots; deleted slots stay empty until Compact.
type componentColumn interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to their storage factories. Each
// Storage has its own registry, so independent worlds can coexist.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentColumn
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentColumn),
	}
}

// RegisterComponent registers T. Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() componentColumn {
		return &genericComponentStorage[T]{}
	}
}

// IsRegistered reports whether t has a storage factory.
func (r *ComponentRegistry) IsRegistered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentColumn {
	return r.factories[t]
}

const genericBlockSize = 64

// genericComponentStorage keeps components of type T in separately allocated
// fixed-size blocks, so pointers handed out by Get stay valid while the
// column grows. Compact moves components and invalidates them.
type genericComponentStorage[T any] struct {
	blocks    []*[genericBlockSize]T
	filled    []*[genericBlockSize]bool
	freeSlots []int
	nextIndex int
}

func locate(index int) (block, slot int) {
	return index / genericBlockSize, index % genericBlockSize
}

// Append stores item (T or *T) and returns its slot, reusing freed slots first.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
	}

	block, slot := locate(index)
	if block >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.filled = append(cs.filled, new([genericBlockSize]bool))
	}

	cs.blocks[block][slot] = value
	cs.filled[block][slot] = true
	return index
}

// Get returns *T for a filled slot, otherwise nil.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	block, slot := locate(index)
	return &cs.blocks[block][slot]
}

// Delete zeroes the slot and puts it on the free list.
func (cs *genericComponentStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}
	block, slot := locate(index)
	var zero T
	cs.filled[block][slot] = false
	cs.blocks[block][slot] = zero
	cs.freeSlots = append(cs.freeSlots, index)
}

// Has reports whether the slot holds a component.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	block, slot := locate(index)
	if block >= len(cs.filled) {
		return false
	}
	return cs.filled[block][slot]
}

// Compact packs live components to the front and returns old->new indices.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	live := cs.nextIndex - len(cs.freeSlots)
	if live <= 0 {
		cs.blocks = nil
		cs.filled = nil
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (live + genericBlockSize - 1) / genericBlockSize
	blocks := make([]*[genericBlockSize]T, numBlocks)
	filled := make([]*[genericBlockSize]bool, numBlocks)
	for i := range blocks {
		blocks[i] = new([genericBlockSize]T)
		filled[i] = new([genericBlockSize]bool)
	}

	write := 0
	for read := 0; read < cs.nextIndex; read++ {
		rb, rs := locate(read)
		if !cs.filled[rb][rs] {
			continue
		}
		indexMap[read] = write
		wb, ws := locate(write)
		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		write++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = write
	return indexMap
}

// Iter yields filled slot indices in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			if cs.Has(i) && !yield(i) {
				return
			}
		}
	}
}
