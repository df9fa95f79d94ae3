package ctrl

import (
	"sync/atomic"
	"time"
)

// Control identifies one physical button.
type Control uint8

const (
	ControlCapture Control = iota // toggles the capture session
	ControlMount                  // toggles the volume mount
	numControls
)

// Debouncer converts raw edge interrupts into clean per-control toggles.
//
// OnEdge is the only method that may run in interrupt context. It touches
// nothing but the two atomic cells of its control; in particular it must
// never call into storage, capture or console code, which are not
// reentrant-safe against the main loop.
type Debouncer struct {
	windowNS int64
	cells    [numControls]debounceCell
}

type debounceCell struct {
	toggle atomic.Uint32 // 0/1 logical toggle value
	lastNS atomic.Int64  // last accepted transition, unix ns
}

// NewDebouncer applies the given refractory window per control.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{windowNS: int64(window)}
}

// OnEdge accepts or ignores one raw edge. Edges inside the refractory
// window are ignored; an accepted edge flips the control's toggle.
func (d *Debouncer) OnEdge(c Control, now time.Time) {
	if c >= numControls {
		return
	}
	cell := &d.cells[c]
	ns := now.UnixNano()
	if ns-cell.lastNS.Load() < d.windowNS {
		return
	}
	cell.lastNS.Store(ns)
	cell.toggle.Store(1 - cell.toggle.Load()&1)
}

// Read returns the control's logical toggle value. Main-loop side.
func (d *Debouncer) Read(c Control) bool {
	if c >= numControls {
		return false
	}
	return d.cells[c].toggle.Load()&1 == 1
}

// SetToggle forces the toggle value. Used by the console shortcut path and
// by failure rewinds so both input paths stay consistent. Main-loop side.
func (d *Debouncer) SetToggle(c Control, v bool) {
	if c >= numControls {
		return
	}
	var u uint32
	if v {
		u = 1
	}
	d.cells[c].toggle.Store(u)
}
