package pathutil

import (
	"strings"
	"sync"
)

const maxPooledCap = 1024 // don't pool builders grown by pathological paths

var builderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

func getBuilder() *strings.Builder {
	sb := builderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

func putBuilder(sb *strings.Builder) {
	if sb == nil || sb.Cap() > maxPooledCap {
		return
	}
	builderPool.Put(sb)
}
