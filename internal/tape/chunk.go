package tape

// chunked is an append-only vector stored in fixed-size chunks. Chunking
// bounds the size of any single allocation during long recordings and
// keeps previously written elements stable in memory.
type chunked[E any] struct {
	chunkSize int
	chunks    [][]E
	size      int
}

func newChunked[E any](chunkSize int) *chunked[E] {
	return &chunked[E]{chunkSize: chunkSize}
}

func (c *chunked[E]) len() int { return c.size }

// allocated returns the total capacity across all chunks.
func (c *chunked[E]) allocated() int { return len(c.chunks) * c.chunkSize }

func (c *chunked[E]) push(v E) {
	chunk := c.size / c.chunkSize
	if chunk == len(c.chunks) {
		c.chunks = append(c.chunks, make([]E, c.chunkSize))
	}
	c.chunks[chunk][c.size%c.chunkSize] = v
	c.size++
}

func (c *chunked[E]) at(i int) E {
	return c.chunks[i/c.chunkSize][i%c.chunkSize]
}

func (c *chunked[E]) ptr(i int) *E {
	return &c.chunks[i/c.chunkSize][i%c.chunkSize]
}

// truncate drops every element at index n and beyond. Chunk memory is
// retained for reuse.
func (c *chunked[E]) truncate(n int) {
	if n < c.size {
		c.size = n
	}
}

func (c *chunked[E]) reset() { c.size = 0 }

// reserve pre-allocates chunks to hold at least n elements.
func (c *chunked[E]) reserve(n int) {
	for c.allocated() < n {
		c.chunks = append(c.chunks, make([]E, c.chunkSize))
	}
}

// each calls fn for i in [from, to) in increasing order.
func (c *chunked[E]) each(from, to int, fn func(i int, v E)) {
	for i := from; i < to; i++ {
		fn(i, c.at(i))
	}
}
