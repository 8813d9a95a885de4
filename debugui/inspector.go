package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
)

// SingletonInspector lists every singleton and edits their scalar fields in
// place.
type SingletonInspector struct {
	storage *ecs.Storage
}

func NewSingletonInspector(storage *ecs.Storage) *SingletonInspector {
	return &SingletonInspector{storage: storage}
}

func (si *SingletonInspector) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	if !imgui.BeginV("Singletons", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, t := range si.storage.SingletonTypes() {
		value := si.storage.Singleton(t)
		if value == nil {
			continue
		}
		if imgui.TreeNodeStr(t.String()) {
			inspectStruct(t.String(), reflect.ValueOf(value).Elem())
			imgui.TreePop()
		}
	}
	imgui.End()
}

// EntityInspector shows the entities of one archetype and the components of
// the selected entity.
type EntityInspector struct {
	storage  *ecs.Storage
	selected ecs.EntityId
	limit    int
}

func NewEntityInspector(storage *ecs.Storage) *EntityInspector {
	return &EntityInspector{storage: storage, limit: 64}
}

// Select picks the entity whose components are shown.
func (ei *EntityInspector) Select(id ecs.EntityId) {
	ei.selected = id
}

// Entities returns up to the inspector's limit of entity ids in archetype.
func (ei *EntityInspector) Entities(archetype uint32) []ecs.EntityId {
	arch := ei.storage.ArchetypeByID(archetype)
	if arch == nil {
		return nil
	}
	var ids []ecs.EntityId
	for id := range arch.Iter() {
		if len(ids) == ei.limit {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

func (ei *EntityInspector) Render(archetype *uint32) {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 300), imgui.CondOnce)
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	if archetype == nil {
		imgui.Text("Select an archetype")
		imgui.End()
		return
	}

	for _, id := range ei.Entities(*archetype) {
		label := fmt.Sprintf("%d##entity", id.Index())
		if imgui.SelectableBoolV(label, id == ei.selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
			ei.selected = id
		}
	}
	imgui.Separator()

	arch := ei.storage.ArchetypeByID(ei.selected.ArchetypeId())
	if ei.selected == 0 || arch == nil {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d in 0x%X", ei.selected.Index(), arch.ID()))
	for _, t := range arch.Types() {
		component := ei.storage.GetComponent(ei.selected, t)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(t.String()) {
			inspectStruct(t.String(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}
	imgui.End()
}

func inspectStruct(path string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		inspectField(path, "value", val)
		return
	}
	for _, field := range reflectionCache.Fields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(field.Name + ": nil")
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		inspectField(path+"."+field.Name, field.Name, fieldVal)
	}
}

func inspectField(path, name string, val reflect.Value) {
	id := "##" + path

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) {
			report(setField(val, v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) {
			report(setField(val, v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(id, &v) {
			report(setField(val, v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+id, &v) {
			report(setField(val, v))
		}

	case reflect.String:
		v := val.String()
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			report(setField(val, v))
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name + id) {
			inspectStruct(path, val)
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, summary(val)))
	}
}

func report(err error) {
	if err != nil {
		app.Logger().Warn("inspector edit rejected", "err", err)
	}
}
