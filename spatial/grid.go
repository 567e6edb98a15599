// Package spatial implements a uniform spatial hash grid over 2D positions.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

var (
	ErrInvalidBounds     = errors.New("spatial: bounds must have positive extent")
	ErrInvalidDimensions = errors.New("spatial: dimensions must be positive")
)

// Dimensions is the number of cells along each axis.
type Dimensions struct {
	Columns, Rows int
}

// Cell identifies a grid cell by column and row.
type Cell struct {
	X, Y int
}

// CellInfo reports the occupancy of a cell.
type CellInfo struct {
	Cell
	Count int
}

type cellRange struct {
	min, max Cell
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the logger used by the grid.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Grid) {
		g.logger = logger
	}
}

// Grid partitions a fixed world rectangle into Columns x Rows uniform cells.
// Each cell holds an intrusive list of the clients whose bounding box
// intersects it. Positions outside the world rectangle are clamped to the
// nearest cell.
type Grid struct {
	logger   *zap.Logger
	bounds   Bounds
	dims     Dimensions
	cellSize Vec2

	heads  []*node
	counts []int

	clients *intmap.Map[ClientID, *Client]
	nextID  ClientID
	queryID uint64
}

// NewGrid creates a grid covering bounds with the given resolution.
func NewGrid(bounds Bounds, dims Dimensions, opts ...Option) (*Grid, error) {
	size := bounds.Size()
	if !(size.X > 0) || !(size.Y > 0) {
		return nil, fmt.Errorf("new grid %v: %w", bounds, ErrInvalidBounds)
	}
	if dims.Columns <= 0 || dims.Rows <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", dims.Columns, dims.Rows, ErrInvalidDimensions)
	}

	g := &Grid{
		logger: zap.NewNop(),
		bounds: bounds,
		dims:   dims,
		cellSize: Vec2{
			X: size.X / float64(dims.Columns),
			Y: size.Y / float64(dims.Rows),
		},
		heads:   make([]*node, dims.Columns*dims.Rows),
		counts:  make([]int, dims.Columns*dims.Rows),
		clients: intmap.New[ClientID, *Client](256),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.logger.Debug("spatial grid created",
		zap.Float64("cell_width", g.cellSize.X),
		zap.Float64("cell_height", g.cellSize.Y),
		zap.Int("columns", dims.Columns),
		zap.Int("rows", dims.Rows))
	return g, nil
}

// Bounds returns the world rectangle covered by the grid.
func (g *Grid) Bounds() Bounds {
	return g.bounds
}

// Dimensions returns the grid resolution.
func (g *Grid) Dimensions() Dimensions {
	return g.dims
}

// CellSize returns the world extent of a single cell.
func (g *Grid) CellSize() Vec2 {
	return g.cellSize
}

// CellAt returns the cell containing p. Points on a cell boundary belong to
// the cell whose lower edge they lie on; points outside the world are clamped.
func (g *Grid) CellAt(p Vec2) Cell {
	return Cell{
		X: clampIndex((p.X-g.bounds.Min.X)/g.cellSize.X, g.dims.Columns),
		Y: clampIndex((p.Y-g.bounds.Min.Y)/g.cellSize.Y, g.dims.Rows),
	}
}

func clampIndex(f float64, n int) int {
	f = math.Floor(f)
	if !(f >= 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}

// footprint returns the cells intersected by the box centered on p.
func (g *Grid) footprint(p, extent Vec2) cellRange {
	half := Vec2{math.Abs(extent.X) / 2, math.Abs(extent.Y) / 2}
	return cellRange{
		min: g.CellAt(p.Sub(half)),
		max: g.CellAt(p.Add(half)),
	}
}

func (g *Grid) index(x, y int) int {
	return y*g.dims.Columns + x
}

// NewClient registers an occupant centered on position with the given
// bounding box dimensions and returns its handle.
func (g *Grid) NewClient(position, dimensions Vec2) *Client {
	g.nextID++
	c := &Client{
		id:         g.nextID,
		position:   position,
		dimensions: dimensions,
		grid:       g,
	}
	g.insert(c)
	g.clients.Put(c.id, c)
	return c
}

// UpdateClient moves c to position. Cell membership only changes when the
// set of covered cells changes.
func (g *Grid) UpdateClient(c *Client, position Vec2) {
	if c == nil || c.grid != g {
		return
	}
	c.position = position

	cells := g.footprint(position, c.dimensions)
	if cells == c.cells {
		return
	}
	g.unlink(c)
	g.link(c, cells)
}

// RemoveClient deletes c from every cell it occupies. The handle must not be
// used with the grid afterwards.
func (g *Grid) RemoveClient(c *Client) {
	if c == nil || c.grid != g {
		return
	}
	g.unlink(c)
	g.clients.Del(c.id)
	c.grid = nil
}

// Lookup returns the client registered under id.
func (g *Grid) Lookup(id ClientID) (*Client, bool) {
	return g.clients.Get(id)
}

// Len returns the number of registered clients.
func (g *Grid) Len() int {
	return g.clients.Len()
}

// FindNearby returns every client occupying a cell touched by the square of
// half-size radius around position. The result is a cell-granular superset of
// the clients within radius; callers filter by exact distance. With radius 0
// the cell containing position is still searched.
func (g *Grid) FindNearby(position Vec2, radius float64) []*Client {
	return g.AppendNearby(nil, position, radius)
}

// AppendNearby is FindNearby appending into buf to avoid per-query
// allocation.
func (g *Grid) AppendNearby(buf []*Client, position Vec2, radius float64) []*Client {
	cells := g.footprint(position, Vec2{radius * 2, radius * 2})

	g.queryID++
	query := g.queryID
	for y := cells.min.Y; y <= cells.max.Y; y++ {
		for x := cells.min.X; x <= cells.max.X; x++ {
			for n := g.heads[g.index(x, y)]; n != nil; n = n.next {
				if n.client.queryID == query {
					continue
				}
				n.client.queryID = query
				buf = append(buf, n.client)
			}
		}
	}
	return buf
}

// OccupiedCells returns the non-empty cells and their client counts in row
// major order.
func (g *Grid) OccupiedCells() []CellInfo {
	var out []CellInfo
	for i, count := range g.counts {
		if count == 0 {
			continue
		}
		out = append(out, CellInfo{
			Cell:  Cell{X: i % g.dims.Columns, Y: i / g.dims.Columns},
			Count: count,
		})
	}
	return out
}

func (g *Grid) insert(c *Client) {
	g.link(c, g.footprint(c.position, c.dimensions))
}

func (g *Grid) link(c *Client, cells cellRange) {
	c.cells = cells
	c.nodes = c.nodes[:0]
	for y := cells.min.Y; y <= cells.max.Y; y++ {
		for x := cells.min.X; x <= cells.max.X; x++ {
			i := g.index(x, y)
			n := &node{client: c, cell: i, next: g.heads[i]}
			if n.next != nil {
				n.next.prev = n
			}
			g.heads[i] = n
			g.counts[i]++
			c.nodes = append(c.nodes, n)
		}
	}
}

func (g *Grid) unlink(c *Client) {
	for _, n := range c.nodes {
		if n.prev != nil {
			n.prev.next = n.next
		} else {
			g.heads[n.cell] = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
		g.counts[n.cell]--
	}
	clear(c.nodes)
	c.nodes = c.nodes[:0]
}
