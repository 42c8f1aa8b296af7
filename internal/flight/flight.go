/*
Package flight tracks outstanding queries for the engine. Each sent query occupies one slot holding
its transaction id and send time until a response arrives or the query times out. The table is
owned and mutated solely by the engine goroutine so no locking occurs here.

The capacity rule matters: the table grows when the admission limit grows but never shrinks, even
when the limit is lowered mid-run. Slots above a lowered limit may still hold queries that were
outstanding at the time of the change and those must be allowed to complete or expire normally.
*/
package flight

import (
	"errors"
	"fmt"
	"time"
)

// ErrFull is returned by Reserve when every slot within the admission limit is occupied. The
// engine gates admission on Outstanding() < Limit() so seeing this error indicates a bug.
var ErrFull = errors.New("flight: no free slot within the admission limit")

type slot struct {
	inUse  bool
	id     uint16
	sentAt time.Time
}

// Table is the set of in-flight query slots. Construct with New.
type Table struct {
	slots       []slot
	limit       int // Admission limit - may be less than len(slots) after a lowering
	outstanding int
	peak        int // High watermark of outstanding, for reporting
}

// New constructs a table sized for the given admission limit.
func New(limit int) *Table {
	t := &Table{}
	t.Resize(limit)

	return t
}

// Reserve claims the lowest-index free slot within the admission limit and records the query id
// and send time in it.
func (t *Table) Reserve(id uint16, now time.Time) error {
	for ix := 0; ix < t.limit && ix < len(t.slots); ix++ {
		if t.slots[ix].inUse {
			continue
		}
		t.slots[ix].inUse = true
		t.slots[ix].id = id
		t.slots[ix].sentAt = now
		t.outstanding++
		if t.outstanding > t.peak {
			t.peak = t.outstanding
		}
		return nil
	}

	return ErrFull
}

// Release clears the first slot holding the given id and returns its send time. The whole table is
// scanned, not just the limited prefix, so queries stranded above a lowered limit still complete.
// ok is false when no slot holds the id - a late, duplicated or stray response.
func (t *Table) Release(id uint16) (sentAt time.Time, ok bool) {
	for ix := 0; ix < len(t.slots); ix++ {
		if t.slots[ix].inUse && t.slots[ix].id == id {
			t.slots[ix].inUse = false
			t.outstanding--
			return t.slots[ix].sentAt, true
		}
	}

	return time.Time{}, false
}

// Expire releases every slot whose query has been outstanding for timeout or longer, as measured
// against now, and returns the ids released in slot order.
func (t *Table) Expire(now time.Time, timeout time.Duration) []uint16 {
	var expired []uint16
	for ix := 0; ix < len(t.slots); ix++ {
		if t.slots[ix].inUse && now.Sub(t.slots[ix].sentAt) >= timeout {
			t.slots[ix].inUse = false
			t.outstanding--
			expired = append(expired, t.slots[ix].id)
		}
	}

	return expired
}

// Resize changes the admission limit. Capacity only ever grows - a lowered limit leaves the extra
// slots in place so any queries they hold are not forgotten.
func (t *Table) Resize(limit int) {
	if limit > len(t.slots) {
		grown := make([]slot, limit)
		copy(grown, t.slots)
		t.slots = grown
	}
	t.limit = limit
}

// Outstanding returns the number of in-use slots.
func (t *Table) Outstanding() int {
	return t.outstanding
}

// Limit returns the current admission limit.
func (t *Table) Limit() int {
	return t.limit
}

// Capacity returns the allocated slot count which is never less than the largest limit ever set.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Name is part of the reporter.Reporter interface.
func (t *Table) Name() string {
	return "Flight"
}

// Report is part of the reporter.Reporter interface. resetCounters lowers the peak to the current
// outstanding count rather than to zero, as outstanding queries are still in flight.
func (t *Table) Report(resetCounters bool) string {
	s := fmt.Sprintf("outstanding=%d peak=%d limit=%d capacity=%d",
		t.outstanding, t.peak, t.limit, len(t.slots))
	if resetCounters {
		t.peak = t.outstanding
	}

	return s
}
