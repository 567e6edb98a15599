// Package debugui provides Dear ImGui windows for inspecting a running
// EntityManager and its spatial grid. The windows are drawn by an Overlay
// component, so they run inside the frame like any other component.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/spatial"
)

// ImguiInputState tracks Dear ImGui's input capture state. The Overlay
// publishes it on its entity's blackboard every frame.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay renders the debug windows during the camera pass. The host must
// begin and end the ImGui frame around EntityManager.Update.
type Overlay struct {
	ecs.BaseComponent

	manager *ecs.EntityManager

	browser   *EntityBrowser
	inspector *ComponentInspector
	stats     *PerformanceStats
	grid      *GridViewer
}

// NewOverlay creates the debug windows. grid may be nil.
func NewOverlay(manager *ecs.EntityManager, grid *spatial.Grid) *Overlay {
	o := &Overlay{
		manager:   manager,
		browser:   NewEntityBrowser(100),
		inspector: NewComponentInspector(),
		stats:     NewPerformanceStats(120),
	}
	if grid != nil {
		o.grid = NewGridViewer(grid)
	}
	return o
}

func (o *Overlay) InitEntity() {
	ecs.SetAttribute(o.Parent(), ImguiInputState{})
	o.SetPass(ecs.PassCamera)
}

func (o *Overlay) Update(dt float64) {
	if state := ecs.AttributePtr[ImguiInputState](o.Parent()); state != nil {
		state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
		state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
	}

	o.browser.Render(o.manager)
	o.inspector.Render(o.manager, o.browser.Selected())
	o.stats.Render(o.manager, float32(dt))
	if o.grid != nil {
		o.grid.Render()
	}
}
