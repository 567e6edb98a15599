package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/google/uuid"

	"github.com/plus3/quickfps/ecs"
)

type EntityInfo struct {
	ID             uuid.UUID
	Name           string
	ComponentTypes []string
	AttributeCount int
}

type entityBrowserCache struct {
	entities      []EntityInfo
	lastCount     int
	sortColumn    int
	sortAscending bool
}

// EntityBrowser lists the registered entities.
type EntityBrowser struct {
	cache              *entityBrowserCache
	selected           uuid.UUID
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &entityBrowserCache{
			lastCount:     -1,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(manager *ecs.EntityManager) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(manager)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Attributes")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filtered := eb.filteredEntities()

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filtered))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filtered))

		for _, entity := range filtered[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selected == entity.ID
			if imgui.SelectableBoolV(entity.ID.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.AttributeCount))
		}

		imgui.EndTable()
	}

	filtered := eb.filteredEntities()
	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// Selected returns the ID of the selected entity, uuid.Nil if none.
func (eb *EntityBrowser) Selected() uuid.UUID {
	return eb.selected
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(manager *ecs.EntityManager) {
	if eb.cache.lastCount == manager.Len() && eb.cache.entities != nil {
		return
	}
	eb.cache.lastCount = manager.Len()
	eb.cache.entities = Snapshot(manager)
	eb.sortEntities()
}

// Snapshot describes every registered entity in registration order.
func Snapshot(manager *ecs.EntityManager) []EntityInfo {
	var out []EntityInfo
	for e := range manager.Entities() {
		components := e.Components()
		types := make([]string, len(components))
		for i, c := range components {
			types[i] = reflect.TypeOf(c).String()
		}

		attributes := 0
		for range e.Attributes() {
			attributes++
		}

		out = append(out, EntityInfo{
			ID:             e.ID(),
			Name:           e.Name(),
			ComponentTypes: types,
			AttributeCount: attributes,
		})
	}
	return out
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = a.AttributeCount < b.AttributeCount
		default:
			less = a.ID.String() < b.ID.String()
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}
	return FilterEntities(eb.cache.entities, eb.filterText)
}

// FilterEntities keeps the entities whose ID, name or component types
// contain text, ignoring case.
func FilterEntities(entities []EntityInfo, text string) []EntityInfo {
	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if !strings.Contains(entity.ID.String(), filterLower) &&
			!strings.Contains(strings.ToLower(entity.Name), filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}

	return filtered
}
