package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/ecs"
)

// ArchetypeColumn is a sortable column of the archetype table.
type ArchetypeColumn int

const (
	ColumnID ArchetypeColumn = iota
	ColumnComponents
	ColumnComponentCount
	ColumnEntityCount
)

// ArchetypeRow is one line of the archetype table.
type ArchetypeRow struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// ArchetypeViewer lists archetypes with their component types and
// population. Clicking a row selects it for the entity inspector.
type ArchetypeViewer struct {
	storage   *ecs.Storage
	rows      []ArchetypeRow
	column    ArchetypeColumn
	ascending bool
	selected  *uint32
}

func NewArchetypeViewer(storage *ecs.Storage) *ArchetypeViewer {
	return &ArchetypeViewer{storage: storage, column: ColumnEntityCount}
}

// Selected returns the selected archetype id, or nil.
func (av *ArchetypeViewer) Selected() *uint32 {
	return av.selected
}

// SortBy changes the sort column and direction.
func (av *ArchetypeViewer) SortBy(column ArchetypeColumn, ascending bool) {
	av.column, av.ascending = column, ascending
}

// Rows refreshes and returns the sorted table rows.
func (av *ArchetypeViewer) Rows() []ArchetypeRow {
	stats := av.storage.CollectStats()
	av.rows = av.rows[:0]
	for _, arch := range stats.ArchetypeBreakdown {
		av.rows = append(av.rows, ArchetypeRow{
			ID:             arch.ID,
			ComponentTypes: arch.ComponentTypes,
			EntityCount:    arch.EntityCount,
		})
	}
	sortRows(av.rows, av.column, av.ascending)
	return av.rows
}

func sortRows(rows []ArchetypeRow, column ArchetypeColumn, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ascending {
			a, b = b, a
		}
		switch column {
		case ColumnID:
			return b.ID < a.ID
		case ColumnComponents:
			return strings.Join(b.ComponentTypes, ",") < strings.Join(a.ComponentTypes, ",")
		case ColumnComponentCount:
			return len(b.ComponentTypes) < len(a.ComponentTypes)
		default:
			return b.EntityCount < a.EntityCount
		}
	})
}

func (av *ArchetypeViewer) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(480, 320), imgui.CondOnce)
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	rows := av.Rows()
	maxEntities := 0
	for _, row := range rows {
		maxEntities = max(maxEntities, row.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		specs := imgui.TableGetSortSpecs()
		if specs.SpecsDirty() && specs.SpecsCount() > 0 {
			spec := specs.Specs()
			av.SortBy(ArchetypeColumn(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortRows(rows, av.column, av.ascending)
			specs.SetSpecsDirty(false)
		}

		for _, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			selected := av.selected != nil && *av.selected == row.ID
			if imgui.SelectableBoolV(fmt.Sprintf("0x%X", row.ID), selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				id := row.ID
				av.selected = &id
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.ComponentTypes)))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))

			if maxEntities > 0 {
				width := float32(row.EntityCount) / float32(maxEntities) * 80
				imgui.SameLine()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+width, pos.Y+10), color)
			}
		}
		imgui.EndTable()
	}
	imgui.End()
}
