package game_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/game"
	"github.com/plus3/quickfps/spatial"
)

// fakeInput is a scripted InputSource.
type fakeInput struct {
	keys    map[game.Key]bool
	left    bool
	right   bool
	dx, dy  float64
	cursorX float64
	cursorY float64
}

func newFakeInput() *fakeInput {
	return &fakeInput{keys: make(map[game.Key]bool)}
}

func (f *fakeInput) IsKeyPressed(key game.Key) bool   { return f.keys[key] }
func (f *fakeInput) MouseButtons() (left, right bool) { return f.left, f.right }
func (f *fakeInput) CursorPosition() (x, y float64)   { return f.cursorX, f.cursorY }
func (f *fakeInput) MouseDelta() (dx, dy float64) {
	dx, dy = f.dx, f.dy
	f.dx, f.dy = 0, 0
	return dx, dy
}

func newParams(t *testing.T) game.Params {
	t.Helper()
	grid, err := spatial.NewGrid(spatial.Bounds{
		Min: spatial.Vec2{X: -5000, Y: -5000},
		Max: spatial.Vec2{X: 5000, Y: 5000},
	}, spatial.Dimensions{Columns: 100, Rows: 100})
	require.NoError(t, err)
	return game.Params{
		Manager: ecs.NewEntityManager(),
		Grid:    grid,
		Rand:    rand.New(rand.NewPCG(1, 2)),
	}
}

func targetSettings() game.TargetSettings {
	return game.TargetSettings{
		Count:    5,
		Spacing:  400,
		Radius:   60,
		Lifetime: 12 * time.Second,
	}
}
