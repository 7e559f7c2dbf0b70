package render

import (
	"fmt"
	"image/color"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilemap/tiled"
)

// ScriptObjects draws map objects as filled rectangles, letting a tengo
// script decide per object whether to draw it and in which colour.
//
// The script sees an `object` map (id, name, type, x, y, width, height,
// rotation, visible, properties) and may assign `draw` (bool) and `fill`
// (colour string). Hidden objects start with draw = false.
type ScriptObjects struct {
	compiled *tengo.Compiled
}

// NewScriptObjects compiles src.
func NewScriptObjects(src []byte) (*ScriptObjects, error) {
	script := tengo.NewScript(src)
	_ = script.Add("object", map[string]any{})
	_ = script.Add("draw", true)
	_ = script.Add("fill", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("render: compile object script: %w", err)
	}
	return &ScriptObjects{compiled: compiled}, nil
}

// Eval runs the script for obj and returns its fill colour and whether it should be drawn.
func (s *ScriptObjects) Eval(obj *tiled.Object) (color.RGBA, bool, error) {
	if err := s.compiled.Set("object", objectValue(obj)); err != nil {
		return color.RGBA{}, false, fmt.Errorf("render: object %d: %w", obj.ID, err)
	}
	if err := s.compiled.Set("draw", obj.Visible); err != nil {
		return color.RGBA{}, false, err
	}
	if err := s.compiled.Set("fill", ""); err != nil {
		return color.RGBA{}, false, err
	}

	if err := s.compiled.Run(); err != nil {
		return color.RGBA{}, false, fmt.Errorf("render: object %d script: %w", obj.ID, err)
	}

	if !s.compiled.Get("draw").Bool() {
		return color.RGBA{}, false, nil
	}

	fill := s.compiled.Get("fill").String()
	if fill == "" {
		return defaultFill(obj.Type), true, nil
	}
	c, err := ParseColor(fill)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("render: object %d: %w", obj.ID, err)
	}
	return c, true, nil
}

func (s *ScriptObjects) RenderObject(p *Pass, obj *tiled.Object) {
	c, ok, err := s.Eval(obj)
	if err != nil {
		log.Printf("render: skipping object %d (%s): %v", obj.ID, obj.Name, err)
		return
	}
	if !ok {
		return
	}
	dst := Rect{
		X:      obj.X * p.UnitScale,
		Y:      obj.Y * p.UnitScale,
		Width:  obj.Width * p.UnitScale,
		Height: obj.Height * p.UnitScale,
	}
	p.Batch.Draw(WhitePixel(), dst, DrawOptions{Tint: c, Alpha: p.Opacity})
}

func objectValue(obj *tiled.Object) map[string]any {
	props := make(map[string]any, len(obj.Properties))
	for k, v := range obj.Properties {
		props[k] = v
	}
	return map[string]any{
		"id":         obj.ID,
		"name":       obj.Name,
		"type":       obj.Type,
		"x":          obj.X,
		"y":          obj.Y,
		"width":      obj.Width,
		"height":     obj.Height,
		"rotation":   obj.Rotation,
		"visible":    obj.Visible,
		"properties": props,
	}
}
