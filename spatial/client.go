package spatial

// ClientID identifies a client within its grid.
type ClientID uint32

// Client is a handle to an occupant of a Grid.
type Client struct {
	id         ClientID
	position   Vec2
	dimensions Vec2
	cells      cellRange
	nodes      []*node
	queryID    uint64
	grid       *Grid

	// Data is an arbitrary payload owned by the caller, typically the entity
	// the client belongs to.
	Data any
}

type node struct {
	client     *Client
	cell       int
	prev, next *node
}

// ID returns the client's identifier.
func (c *Client) ID() ClientID {
	return c.id
}

// Position returns the last position recorded for the client.
func (c *Client) Position() Vec2 {
	return c.position
}

// Dimensions returns the client's bounding box size.
func (c *Client) Dimensions() Vec2 {
	return c.dimensions
}

// Cells returns the cells currently occupied by the client.
func (c *Client) Cells() []Cell {
	if c.grid == nil {
		return nil
	}
	out := make([]Cell, 0, len(c.nodes))
	for y := c.cells.min.Y; y <= c.cells.max.Y; y++ {
		for x := c.cells.min.X; x <= c.cells.max.X; x++ {
			out = append(out, Cell{X: x, Y: y})
		}
	}
	return out
}

// Active reports whether the client is still registered with a grid.
func (c *Client) Active() bool {
	return c.grid != nil
}

// Within returns the clients whose position lies within radius of center.
func Within(clients []*Client, center Vec2, radius float64) []*Client {
	r2 := radius * radius
	var out []*Client
	for _, c := range clients {
		if c.position.DistanceSq(center) <= r2 {
			out = append(out, c)
		}
	}
	return out
}
