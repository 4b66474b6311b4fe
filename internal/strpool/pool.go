package strpool

import (
	"strings"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func Get() *strings.Builder {
	return pool.Get().(*strings.Builder)
}

// Put resets the builder before handing it back to the pool.
func Put(b *strings.Builder) {
	b.Reset()
	pool.Put(b)
}
