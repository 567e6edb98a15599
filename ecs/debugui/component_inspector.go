package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/google/uuid"

	"github.com/plus3/quickfps/ecs"
)

// ComponentInspector shows, and lets the user edit, the exported fields of
// the selected entity's components and attributes.
type ComponentInspector struct {
	selected uuid.UUID
}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(manager *ecs.EntityManager, selected uuid.UUID) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	ci.selected = selected
	if ci.selected == uuid.Nil {
		imgui.Text("No entity selected")
		return
	}

	entity := FindEntity(manager, ci.selected)
	if entity == nil {
		imgui.Text(fmt.Sprintf("Entity %s is no longer registered", ci.selected))
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %s", entity.ID()))
	if entity.Name() != "" {
		imgui.Text(fmt.Sprintf("Name: %s", entity.Name()))
	}
	imgui.Separator()

	imgui.Text("Components")
	for _, c := range entity.Components() {
		typ := reflect.TypeOf(c)
		label := fmt.Sprintf("%s (%s)", typ, ecs.PassOf(c))
		if imgui.TreeNodeStr(label) {
			ci.renderValue(reflect.ValueOf(c))
			imgui.TreePop()
		}
	}

	imgui.Separator()
	imgui.Text("Attributes")
	for typ, v := range entity.Attributes() {
		if imgui.TreeNodeStr(typ.String()) {
			ci.renderValue(reflect.ValueOf(v))
			imgui.TreePop()
		}
	}
}

// FindEntity returns the registered entity with the given ID.
func FindEntity(manager *ecs.EntityManager, id uuid.UUID) *ecs.Entity {
	matches := manager.Filter(func(e *ecs.Entity) bool {
		return e.ID() == id
	})
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

func (ci *ComponentInspector) renderValue(val reflect.Value) {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text("nil")
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		ci.renderField("value", val)
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal)
	}
}

// renderField draws one field. Values reached through a pointer are
// settable and edited in place.
func (ci *ComponentInspector) renderField(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nested := val.Field(nf.Index)
				if nf.IsPointer && !nested.IsNil() {
					nested = nested.Elem()
				}
				ci.renderField(nf.Name, nested)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}
