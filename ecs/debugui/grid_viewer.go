package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/quickfps/spatial"
)

// GridViewer lists the occupied cells of a spatial grid, busiest first.
type GridViewer struct {
	grid    *spatial.Grid
	maxRows int
}

func NewGridViewer(grid *spatial.Grid) *GridViewer {
	return &GridViewer{grid: grid, maxRows: 50}
}

func (gv *GridViewer) Render() {
	if !imgui.BeginV("Spatial Grid", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	dims := gv.grid.Dimensions()
	size := gv.grid.CellSize()
	cells := BusiestCells(gv.grid)

	imgui.Text(fmt.Sprintf("Clients: %d", gv.grid.Len()))
	imgui.Text(fmt.Sprintf("Grid: %d x %d cells of %.1f x %.1f", dims.Columns, dims.Rows, size.X, size.Y))
	imgui.Text(fmt.Sprintf("Occupied cells: %d", len(cells)))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("GridCellsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Column")
		imgui.TableSetupColumn("Row")
		imgui.TableSetupColumn("Clients")
		imgui.TableHeadersRow()

		for _, cell := range cells[:min(len(cells), gv.maxRows)] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", cell.X))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", cell.Y))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", cell.Count))
		}

		imgui.EndTable()
	}

	imgui.End()
}

// BusiestCells returns the occupied cells sorted by descending client count.
func BusiestCells(grid *spatial.Grid) []spatial.CellInfo {
	cells := grid.OccupiedCells()
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].Count > cells[j].Count
	})
	return cells
}
