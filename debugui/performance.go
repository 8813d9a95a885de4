package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/shaderdemos/app"
)

// SystemRow is one line of the per-system timing table.
type SystemRow struct {
	Schedule app.Schedule
	Name     string
	Runs     int64
	Last     time.Duration
	Avg      time.Duration
	Max      time.Duration
}

// PerformancePanel shows frame timing, world occupancy, per-system timings
// and the pipeline cache counters.
type PerformancePanel struct {
	app *app.App
}

func NewPerformancePanel(a *app.App) *PerformancePanel {
	return &PerformancePanel{app: a}
}

// Systems returns the timing rows of every schedule in run order.
func (p *PerformancePanel) Systems() []SystemRow {
	var rows []SystemRow
	for s := app.Startup; s <= app.Render; s++ {
		for _, st := range p.app.Scheduler(s).GetStats().Systems {
			rows = append(rows, SystemRow{
				Schedule: s,
				Name:     st.Name,
				Runs:     st.ExecutionCount,
				Last:     st.LastDuration,
				Avg:      st.AvgDuration,
				Max:      st.MaxDuration,
			})
		}
	}
	return rows
}

// frameSummary is the headline line of the panel.
func frameSummary(d *app.FrameDiagnostics) string {
	if d == nil || d.FrameTime == 0 {
		return "Frame time: n/a"
	}
	return fmt.Sprintf("Frame time: %.2f ms (%.0f FPS)", d.FrameTime*1000, d.FPS)
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d.Microseconds())/1000)
}

func (p *PerformancePanel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	var diag *app.FrameDiagnostics
	p.app.Storage.ReadSingleton(&diag)
	imgui.Text(frameSummary(diag))
	if diag != nil && len(diag.History) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &diag.History[0], int32(len(diag.History)))
	}

	stats := p.app.Storage.CollectStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	pipelines := p.app.Pipelines.Stats()
	imgui.Text(fmt.Sprintf("Pipelines: %d (%d queued, %d failed)", pipelines.Pipelines, pipelines.Queued, pipelines.Failed))
	imgui.Text(fmt.Sprintf("Shader modules: %d (%d hits)", pipelines.Modules, pipelines.ModuleHits))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last ms")
			imgui.TableSetupColumn("Avg ms")
			imgui.TableSetupColumn("Max ms")
			imgui.TableHeadersRow()

			for _, row := range p.Systems() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(row.Schedule.String() + "/" + row.Name)
				imgui.TableNextColumn()
				imgui.Text(millis(row.Last))
				imgui.TableNextColumn()
				imgui.Text(millis(row.Avg))
				imgui.TableNextColumn()
				imgui.Text(millis(row.Max))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}
	imgui.End()
}
