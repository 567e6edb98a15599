package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/game"
	"github.com/plus3/quickfps/spatial"
)

var (
	backgroundColor = color.RGBA{24, 26, 33, 255}
	playerColor     = color.RGBA{179, 229, 252, 255}
	targetColor     = color.RGBA{255, 179, 186, 255}
	aimColor        = color.RGBA{255, 255, 186, 255}
)

type sprite struct {
	kind     game.Kind
	position spatial.Vec2
	yaw      float64
	radius   float64
}

// topDownRenderer is the rendering collaborator of the frame loop. Render
// runs on the frame loop and snapshots the world; Draw presents the
// snapshot when ebiten asks for a frame.
type topDownRenderer struct {
	manager *ecs.EntityManager
	player  *ecs.Entity
	zoom    float64

	sprites []sprite
	camera  spatial.Vec2
	score   game.Score
	fps     float64
}

func (r *topDownRenderer) Render(dt float64) {
	r.sprites = r.sprites[:0]
	for e := range r.manager.Entities() {
		kind, ok := ecs.Attribute[game.Kind](e)
		if !ok {
			continue
		}
		t, ok := ecs.Attribute[game.Transform](e)
		if !ok {
			continue
		}

		s := sprite{kind: kind, position: t.Position, yaw: t.Yaw, radius: 25}
		if target, ok := ecs.GetComponent[*game.Target](e); ok {
			s.radius = target.Radius()
		}
		r.sprites = append(r.sprites, s)
	}

	if t, ok := ecs.Attribute[game.Transform](r.player); ok {
		r.camera = t.Position
	}
	if score, ok := ecs.Attribute[game.Score](r.player); ok {
		r.score = score
	}
	if dt > 0 {
		r.fps = 1 / dt
	}
}

func (r *topDownRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	toScreen := func(p spatial.Vec2) (float32, float32) {
		rel := p.Sub(r.camera).Scale(r.zoom)
		return float32(rel.X + float64(w)/2), float32(rel.Y + float64(h)/2)
	}

	for _, s := range r.sprites {
		x, y := toScreen(s.position)
		radius := float32(s.radius * r.zoom)
		switch s.kind {
		case game.KindPlayer:
			vector.DrawFilledCircle(screen, x, y, radius, playerColor, true)
			aim := s.position.Add(game.Transform{Yaw: s.yaw}.Forward().Scale(s.radius * 4))
			ax, ay := toScreen(aim)
			vector.StrokeLine(screen, x, y, ax, ay, 2, aimColor, true)
		case game.KindTarget:
			vector.DrawFilledCircle(screen, x, y, radius, targetColor, true)
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("hits %d / shots %d   %.0f fps", r.score.Hits, r.score.Shots, r.fps))
}
