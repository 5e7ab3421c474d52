package engine

import (
	"sync"

	"github.com/petermattis/goid"
)

// implicitRefs is a goroutine-local "current NetRef" table, letting
// link-fns and callers enqueue follow-ups without threading a handle
// through every signature.
var implicitRefs sync.Map // map[int64]*NetRef

// CurrentNetRef returns the NetRef bound to the calling goroutine by
// WithNetRef, if any.
func CurrentNetRef() (*NetRef, bool) {
	v, ok := implicitRefs.Load(goid.Get())
	if !ok {
		return nil, false
	}
	return v.(*NetRef), true
}

// WithNetRef binds nr as the implicit netref for the calling goroutine for
// the duration of block, restoring whatever was bound previously
// (including "nothing") once block returns.
func WithNetRef(nr *NetRef, block func()) {
	gid := goid.Get()
	prev, hadPrev := implicitRefs.Load(gid)
	implicitRefs.Store(gid, nr)
	defer func() {
		if hadPrev {
			implicitRefs.Store(gid, prev)
		} else {
			implicitRefs.Delete(gid)
		}
	}()
	block()
}
