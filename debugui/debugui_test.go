package debugui

import (
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/app"
	"github.com/plus3/shaderdemos/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopOverlay struct{}

func (nopOverlay) BeginFrame() {}
func (nopOverlay) EndFrame() {}
func (nopOverlay) Draw(*ebiten.Image) {}
func (nopOverlay) Layout(width, height int) {}

func newDebugApp(t *testing.T, mouse bool, items ...ImguiItem) *app.App {
	t.Helper()
	a := app.NewHeadless(app.DefaultWindow())
	a.AddPlugins(Plugin{
		Overlay:    nopOverlay{},
		Items:      items,
		HidePanels: true,
		capture:    func() (bool, bool) { return mouse, false },
	})
	return a
}

func TestImguiSystemRunsItems(t *testing.T) {
	calls := 0
	a := newDebugApp(t, false, ImguiItem{Render: func() { calls++ }}, ImguiItem{})

	require.NoError(t, a.Step(1.0/60))
	require.NoError(t, a.Step(1.0/60))
	assert.Equal(t, 2, calls)
}

func TestImguiSystemCapturesPointer(t *testing.T) {
	a := newDebugApp(t, true)
	require.NoError(t, a.Step(1.0/60))

	assert.True(t, a.Input().Captured)

	var state *ImguiInputState
	require.True(t, a.Storage.ReadSingleton(&state))
	assert.True(t, state.WantCaptureMouse)
	assert.False(t, state.WantCaptureKeyboard)
}

func TestImguiSystemReleasesPointer(t *testing.T) {
	a := newDebugApp(t, false)
	a.Input().Captured = true
	require.NoError(t, a.Step(1.0/60))
	assert.False(t, a.Input().Captured)
}

type tuning struct {
	Speed   float64
	Count   int
	Seed    uint32
	Enabled bool
	Name    string
	Offset  *struct{ X, Y float64 }
	Tags    []string
	hidden  int
}

func TestReflectionCacheFields(t *testing.T) {
	cache := NewReflectionCache()
	fields := cache.Fields(reflect.TypeFor[tuning]())

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Speed", "Count", "Seed", "Enabled", "Name", "Offset", "Tags"}, names)

	assert.True(t, fields[5].IsPointer)
	assert.Equal(t, reflect.Struct, fields[5].Type.Kind())
	assert.True(t, fields[0].Editable())
	assert.False(t, fields[6].Editable())

	again := cache.Fields(reflect.TypeFor[tuning]())
	assert.Same(t, &fields[0], &again[0])
	assert.Empty(t, cache.Fields(reflect.TypeFor[int]()))
}

func TestSetField(t *testing.T) {
	var v tuning
	val := reflect.ValueOf(&v).Elem()

	require.NoError(t, setField(val.FieldByName("Speed"), float32(2.5)))
	require.NoError(t, setField(val.FieldByName("Count"), int32(-3)))
	require.NoError(t, setField(val.FieldByName("Seed"), int32(7)))
	require.NoError(t, setField(val.FieldByName("Enabled"), true))
	require.NoError(t, setField(val.FieldByName("Name"), "life"))

	assert.Equal(t, tuning{Speed: 2.5, Count: -3, Seed: 7, Enabled: true, Name: "life"}, v)

	assert.Error(t, setField(val.FieldByName("Seed"), int32(-1)))
	assert.Error(t, setField(val.FieldByName("Enabled"), 1))
	assert.Error(t, setField(val.FieldByName("Tags"), "x"))
	assert.Error(t, setField(reflect.ValueOf(v).FieldByName("Count"), 1), "unaddressable")

	var small struct{ N int8 }
	assert.Error(t, setField(reflect.ValueOf(&small).Elem().Field(0), 300))
}

func TestSummary(t *testing.T) {
	var nilPtr *tuning
	tests := []struct {
		value any
		want  string
	}{
		{[]int{1, 2}, "[2 items]"},
		{map[string]int{"a": 1}, "map[1 items]"},
		{nilPtr, "nil"},
		{42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, summary(reflect.ValueOf(tt.value)))
	}
	assert.Equal(t, "<invalid>", summary(reflect.Value{}))
}

type marker struct{ N int }

func TestArchetypeRows(t *testing.T) {
	a := newDebugApp(t, false)
	ecs.RegisterComponent[marker](a.Registry)
	for range 3 {
		a.Storage.Spawn(marker{})
	}
	a.Storage.Spawn(marker{}, ImguiItem{})

	viewer := NewArchetypeViewer(a.Storage)
	rows := viewer.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].EntityCount, "most populated first by default")
	assert.Equal(t, 1, rows[1].EntityCount)

	viewer.SortBy(ColumnComponentCount, false)
	rows = viewer.Rows()
	assert.Len(t, rows[0].ComponentTypes, 2)

	viewer.SortBy(ColumnID, true)
	rows = viewer.Rows()
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestEntityInspectorLimit(t *testing.T) {
	a := newDebugApp(t, false)
	ecs.RegisterComponent[marker](a.Registry)
	var id ecs.EntityId
	for i := range 100 {
		id = a.Storage.Spawn(marker{N: i})
	}

	inspector := NewEntityInspector(a.Storage)
	assert.Len(t, inspector.Entities(id.ArchetypeId()), 64)
	assert.Nil(t, inspector.Entities(0))
}

func TestPerformanceSystems(t *testing.T) {
	a := newDebugApp(t, false)
	a.AddPlugins(app.DiagnosticsPlugin{})
	require.NoError(t, a.Step(0.02))

	rows := NewPerformancePanel(a).Systems()
	require.NotEmpty(t, rows)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Schedule, rows[i].Schedule)
	}

	var first, pre bool
	for _, row := range rows {
		switch row.Schedule {
		case app.First:
			first = true
			assert.Equal(t, int64(1), row.Runs)
		case app.PreUpdate:
			pre = true
		}
	}
	assert.True(t, first)
	assert.True(t, pre)

	var d *app.FrameDiagnostics
	require.True(t, a.Storage.ReadSingleton(&d))
	assert.Equal(t, "Frame time: 20.00 ms (50 FPS)", frameSummary(d))
	assert.Equal(t, "Frame time: n/a", frameSummary(nil))
}
