package expression

import (
	"time"

	"github.com/remaplang/remap/internal/enrichment"
	"github.com/remaplang/remap/internal/value"
)

// Context is the per-evaluation runtime state: the current event, the
// timezone for time formatting, the clock and the enrichment tables.
// One Context serves one evaluation; the event is owned by it, the
// tables are shared read-only.
type Context struct {
	Event    *value.Object
	Timezone *time.Location
	Now      func() time.Time
	Tables   *enrichment.Registry
}

// NewContext builds an evaluation context for one event. A nil event
// behaves as an empty object.
func NewContext(event *value.Object) *Context {
	if event == nil {
		event = value.NewObject()
	}
	return &Context{
		Event:    event,
		Timezone: time.UTC,
		Now:      time.Now,
	}
}
