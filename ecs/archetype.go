package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype stores every entity that has exactly the same set of component
// types. Each component type gets its own block storage; an entity's index is
// the same slot in all of them.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentColumn
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]

	generations []uint8
}

// NewArchetype creates an archetype for the given sorted component types.
// Every type must have been registered with the registry.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentColumn, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// Spawn appends one entity and returns its id.
func (a *Archetype) Spawn(components []any) EntityId {
	var slot int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		if idx := a.storageIndex(compType); idx >= 0 {
			slot = a.storages[idx].Append(comp)
		}
	}

	if slot >= maxEntries {
		panic("archetype " + a.String() + " is full")
	}
	for len(a.generations) <= slot {
		a.generations = append(a.generations, 0)
	}
	return a.entityId(slot)
}

func (a *Archetype) entityId(slot int) EntityId {
	return newEntityId(a.id, a.generations[slot], uint32(slot))
}

// Contains reports whether id names a live entity of this archetype.
func (a *Archetype) Contains(id EntityId) bool {
	if id.ArchetypeId() != a.id || len(a.storages) == 0 {
		return false
	}
	slot := int(id.Index())
	return slot < len(a.generations) &&
		a.generations[slot] == id.Generation() &&
		a.storages[0].Has(slot)
}

func (a *Archetype) String() string {
	return fmt.Sprintf("0x%X", a.id)
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of compType at entityIndex,
// or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(entityIndex))
}

// Delete frees the entity's slot and advances its generation. Other indices
// are untouched and any EntityRef pointing at the entity is zeroed. Stale ids
// are ignored.
func (a *Archetype) Delete(entityId EntityId) {
	if !a.Contains(entityId) {
		return
	}
	entityIndex := entityId.Index()
	a.generations[entityIndex]++

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

// HasComponent reports whether the archetype contains compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype hash.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Count returns the number of live entities.
func (a *Archetype) Count() int {
	n := 0
	for range a.Iter() {
		n++
	}
	return n
}

// Compact removes empty slots and advances every slot generation, so all
// ids issued before the call stop resolving. Live EntityRefs are rewritten to
// the new ids.
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	oldIds := make(map[int]EntityId)
	for index := range a.storages[0].Iter() {
		oldIds[index] = a.entityId(index)
	}

	indexMap := a.storages[0].Compact()
	for i := 1; i < len(a.storages); i++ {
		a.storages[i].Compact()
	}
	for i := range a.generations {
		a.generations[i]++
	}

	moved := make(map[EntityId]weak.Pointer[EntityRef])
	for oldIdx, newIdx := range indexMap {
		weakPtr, ok := a.refs.Get(oldIds[oldIdx])
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := a.entityId(newIdx)
			ref.Id = newId
			moved[newId] = weakPtr
		}
	}

	a.refs.Clear()
	for id, weakPtr := range moved {
		a.refs.Put(id, weakPtr)
	}
}

// Iter yields the id of every live entity in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for index := range a.storages[0].Iter() {
			if !yield(a.entityId(index)) {
				return
			}
		}
	}
}
