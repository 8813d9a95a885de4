package ecs

import "unsafe"

// EntityId packs the archetype ID into the upper 32 bits, the slot
// generation into the next 8 and the slot index into the lower 24. A slot's
// generation changes every time it is freed, so ids of deleted entities stop
// resolving once the slot is reused. Generations wrap after 256 reuses.
type EntityId uint64

const (
	indexBits  = 24
	indexMask  = 1<<indexBits - 1
	maxEntries = 1 << indexBits
)

// NewEntityId creates a generation zero EntityId from an archetype ID and
// entity index. Only the low 24 bits of index are kept.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return newEntityId(archetypeId, 0, index)
}

func newEntityId(archetypeId uint32, generation uint8, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(generation)<<indexBits | uint64(index&indexMask))
}

// ArchetypeId extracts the archetype ID from the entity ID.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Generation extracts the slot generation from the entity ID.
func (e EntityId) Generation() uint8 {
	return uint8(e >> indexBits)
}

// Index extracts the entity index from the entity ID.
func (e EntityId) Index() uint32 {
	return uint32(e & indexMask)
}

// EntityRef is a reference that follows an entity across archetype moves.
// Id is zero once the entity has been deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// System is anything the Scheduler can run once per pass. Struct fields that
// implement Init(*Storage) (queries, singletons, event readers and writers)
// are wired when the system is registered.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during a scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
