package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/quickfps/spatial"
)

func newWorldGrid(t *testing.T) *spatial.Grid {
	t.Helper()
	g, err := spatial.NewGrid(spatial.Bounds{
		Min: spatial.Vec2{X: -5000, Y: -5000},
		Max: spatial.Vec2{X: 5000, Y: 5000},
	}, spatial.Dimensions{Columns: 100, Rows: 100})
	require.NoError(t, err)
	return g
}

func TestNewGrid(t *testing.T) {
	t.Run("cell size", func(t *testing.T) {
		g := newWorldGrid(t)
		assert.Equal(t, spatial.Vec2{X: 100, Y: 100}, g.CellSize())
		assert.Equal(t, spatial.Dimensions{Columns: 100, Rows: 100}, g.Dimensions())
		assert.Equal(t, 0, g.Len())
	})

	tests := []struct {
		name   string
		bounds spatial.Bounds
		dims   spatial.Dimensions
		err    error
	}{
		{"empty bounds", spatial.Bounds{}, spatial.Dimensions{Columns: 1, Rows: 1}, spatial.ErrInvalidBounds},
		{"inverted bounds", spatial.Bounds{Min: spatial.Vec2{X: 10, Y: 10}}, spatial.Dimensions{Columns: 1, Rows: 1}, spatial.ErrInvalidBounds},
		{"zero columns", spatial.Bounds{Max: spatial.Vec2{X: 10, Y: 10}}, spatial.Dimensions{Rows: 1}, spatial.ErrInvalidDimensions},
		{"negative rows", spatial.Bounds{Max: spatial.Vec2{X: 10, Y: 10}}, spatial.Dimensions{Columns: 1, Rows: -1}, spatial.ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := spatial.NewGrid(tt.bounds, tt.dims)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, g)
		})
	}
}

func TestCellAt(t *testing.T) {
	g := newWorldGrid(t)

	tests := []struct {
		name string
		p    spatial.Vec2
		want spatial.Cell
	}{
		{"origin", spatial.Vec2{}, spatial.Cell{X: 50, Y: 50}},
		{"min corner", spatial.Vec2{X: -5000, Y: -5000}, spatial.Cell{}},
		{"max corner clamps", spatial.Vec2{X: 5000, Y: 5000}, spatial.Cell{X: 99, Y: 99}},
		{"boundary belongs to upper cell", spatial.Vec2{X: 100, Y: -100}, spatial.Cell{X: 51, Y: 49}},
		{"just below boundary", spatial.Vec2{X: 99.999, Y: -100.001}, spatial.Cell{X: 50, Y: 48}},
		{"outside low", spatial.Vec2{X: -1e9, Y: 0}, spatial.Cell{X: 0, Y: 50}},
		{"outside high", spatial.Vec2{X: 0, Y: 1e9}, spatial.Cell{X: 50, Y: 99}},
		{"nan", spatial.Vec2{X: math.NaN(), Y: math.Inf(1)}, spatial.Cell{X: 0, Y: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CellAt(tt.p))
		})
	}
}

func TestNewClient(t *testing.T) {
	t.Run("point client occupies one cell", func(t *testing.T) {
		g := newWorldGrid(t)
		c := g.NewClient(spatial.Vec2{}, spatial.Vec2{})
		assert.Equal(t, []spatial.Cell{{X: 50, Y: 50}}, c.Cells())
		assert.True(t, c.Active())
		assert.Equal(t, 1, g.Len())
	})

	t.Run("straddling client occupies four cells", func(t *testing.T) {
		g := newWorldGrid(t)
		c := g.NewClient(spatial.Vec2{}, spatial.Vec2{X: 50, Y: 50})
		assert.ElementsMatch(t, []spatial.Cell{
			{X: 49, Y: 49}, {X: 50, Y: 49},
			{X: 49, Y: 50}, {X: 50, Y: 50},
		}, c.Cells())
		assert.Len(t, g.OccupiedCells(), 4)
	})

	t.Run("ids are unique", func(t *testing.T) {
		g := newWorldGrid(t)
		a := g.NewClient(spatial.Vec2{}, spatial.Vec2{})
		b := g.NewClient(spatial.Vec2{}, spatial.Vec2{})
		assert.NotEqual(t, a.ID(), b.ID())

		got, ok := g.Lookup(b.ID())
		require.True(t, ok)
		assert.Same(t, b, got)
	})
}

func TestUpdateClient(t *testing.T) {
	t.Run("move within cell keeps membership", func(t *testing.T) {
		g := newWorldGrid(t)
		c := g.NewClient(spatial.Vec2{X: 10, Y: 10}, spatial.Vec2{})
		g.UpdateClient(c, spatial.Vec2{X: 20, Y: 30})

		assert.Equal(t, spatial.Vec2{X: 20, Y: 30}, c.Position())
		assert.Equal(t, []spatial.Cell{{X: 50, Y: 50}}, c.Cells())
		assert.Equal(t, []spatial.CellInfo{{Cell: spatial.Cell{X: 50, Y: 50}, Count: 1}}, g.OccupiedCells())
	})

	t.Run("same position does not relink", func(t *testing.T) {
		g := newWorldGrid(t)
		a := g.NewClient(spatial.Vec2{X: 10, Y: 10}, spatial.Vec2{X: 20, Y: 20})
		b := g.NewClient(spatial.Vec2{X: 30, Y: 30}, spatial.Vec2{X: 20, Y: 20})
		before := g.FindNearby(spatial.Vec2{X: 20, Y: 20}, 0)
		require.Equal(t, []*spatial.Client{b, a}, before)

		g.UpdateClient(a, spatial.Vec2{X: 10, Y: 10})
		g.UpdateClient(a, spatial.Vec2{X: 10, Y: 10})
		assert.Equal(t, before, g.FindNearby(spatial.Vec2{X: 20, Y: 20}, 0))

		g.UpdateClient(a, spatial.Vec2{X: 40, Y: 60})
		assert.Equal(t, before, g.FindNearby(spatial.Vec2{X: 20, Y: 20}, 0), "same cell range")
		assert.Equal(t, []spatial.CellInfo{{Cell: spatial.Cell{X: 50, Y: 50}, Count: 2}}, g.OccupiedCells())
	})

	t.Run("relinking changes cell order", func(t *testing.T) {
		g := newWorldGrid(t)
		a := g.NewClient(spatial.Vec2{X: 10, Y: 10}, spatial.Vec2{})
		b := g.NewClient(spatial.Vec2{X: 30, Y: 30}, spatial.Vec2{})

		g.UpdateClient(a, spatial.Vec2{X: 150, Y: 10})
		g.UpdateClient(a, spatial.Vec2{X: 10, Y: 10})
		assert.Equal(t, []*spatial.Client{a, b}, g.FindNearby(spatial.Vec2{X: 20, Y: 20}, 0))
	})

	t.Run("move across cells", func(t *testing.T) {
		g := newWorldGrid(t)
		c := g.NewClient(spatial.Vec2{}, spatial.Vec2{})
		g.UpdateClient(c, spatial.Vec2{X: 250, Y: -250})

		assert.Equal(t, []spatial.Cell{{X: 52, Y: 47}}, c.Cells())
		assert.Empty(t, g.FindNearby(spatial.Vec2{}, 0))
		assert.Equal(t, []*spatial.Client{c}, g.FindNearby(spatial.Vec2{X: 250, Y: -250}, 0))
	})

	t.Run("foreign client is ignored", func(t *testing.T) {
		g := newWorldGrid(t)
		other := newWorldGrid(t)
		c := other.NewClient(spatial.Vec2{}, spatial.Vec2{})
		g.UpdateClient(c, spatial.Vec2{X: 1000})
		assert.Equal(t, spatial.Vec2{}, c.Position())
	})
}

func TestRemoveClient(t *testing.T) {
	g := newWorldGrid(t)
	a := g.NewClient(spatial.Vec2{}, spatial.Vec2{X: 150, Y: 150})
	b := g.NewClient(spatial.Vec2{}, spatial.Vec2{})

	g.RemoveClient(a)
	assert.False(t, a.Active())
	assert.Nil(t, a.Cells())
	assert.Equal(t, 1, g.Len())
	_, ok := g.Lookup(a.ID())
	assert.False(t, ok)
	assert.Equal(t, []*spatial.Client{b}, g.FindNearby(spatial.Vec2{}, 200))
	assert.Equal(t, []spatial.CellInfo{{Cell: spatial.Cell{X: 50, Y: 50}, Count: 1}}, g.OccupiedCells())

	// Removing twice is harmless.
	g.RemoveClient(a)
	g.RemoveClient(nil)
	assert.Equal(t, 1, g.Len())
}

func TestFindNearby(t *testing.T) {
	g := newWorldGrid(t)
	near := g.NewClient(spatial.Vec2{X: 30, Y: 30}, spatial.Vec2{})
	diagonal := g.NewClient(spatial.Vec2{X: 180, Y: 180}, spatial.Vec2{})
	far := g.NewClient(spatial.Vec2{X: 2000, Y: 2000}, spatial.Vec2{})
	big := g.NewClient(spatial.Vec2{X: -100, Y: 0}, spatial.Vec2{X: 220, Y: 10})

	t.Run("zero radius searches the containing cell", func(t *testing.T) {
		got := g.FindNearby(spatial.Vec2{X: 1, Y: 1}, 0)
		assert.ElementsMatch(t, []*spatial.Client{near, big}, got)
	})

	t.Run("superset of clients within radius", func(t *testing.T) {
		center := spatial.Vec2{X: 50, Y: 50}
		got := g.FindNearby(center, 150)
		assert.ElementsMatch(t, []*spatial.Client{near, diagonal, big}, got)
		assert.NotContains(t, got, far)

		within := spatial.Within(got, center, 150)
		assert.ElementsMatch(t, []*spatial.Client{near}, within)
	})

	t.Run("multi-cell clients are reported once", func(t *testing.T) {
		got := g.FindNearby(spatial.Vec2{X: -100, Y: 0}, 300)
		count := 0
		for _, c := range got {
			if c == big {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("append reuses buffer", func(t *testing.T) {
		buf := make([]*spatial.Client, 0, 8)
		buf = g.AppendNearby(buf, spatial.Vec2{X: 2000, Y: 2000}, 10)
		assert.Equal(t, []*spatial.Client{far}, buf)
		buf = g.AppendNearby(buf[:0], spatial.Vec2{X: 2000, Y: 2000}, 10)
		assert.Equal(t, []*spatial.Client{far}, buf)
	})
}

func TestBounds(t *testing.T) {
	b := spatial.Bounds{Min: spatial.Vec2{X: -1, Y: -1}, Max: spatial.Vec2{X: 1, Y: 1}}
	assert.Equal(t, spatial.Vec2{X: 2, Y: 2}, b.Size())
	assert.True(t, b.Contains(spatial.Vec2{X: 1, Y: -1}))
	assert.False(t, b.Contains(spatial.Vec2{X: 1.1}))
	assert.InDelta(t, 5.0, spatial.Vec2{X: 3, Y: 4}.Distance(spatial.Vec2{}), 1e-9)
}
