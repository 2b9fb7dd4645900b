package pageindex

import (
	"fmt"

	"github.com/ytget/pager/internal/model"
)

// BufferSlots is the number of non-interactive slots between the ranges
const BufferSlots = 2

// Mapper converts between (logical page, range) and visual slot.
//
// Slot layout for countA=3, countB=2:
//
//	0 1 2 | 3 4 | 5 6
//	A A A | buf | B B
//
// Slot countA mirrors A's first page (drawn while wrapping forward out of A);
// slot countA+1 mirrors B's last page (drawn while wrapping back out of B).
type Mapper struct {
	countA int
	countB int
}

// New creates a mapper. Negative counts are a caller bug and panic.
func New(countA, countB int) *Mapper {
	if countA < 0 || countB < 0 {
		panic(fmt.Sprintf("pageindex: negative page count %d/%d", countA, countB))
	}
	return &Mapper{countA: countA, countB: countB}
}

// Count returns the number of logical pages in r
func (m *Mapper) Count(r model.ContentRange) int {
	switch r {
	case model.RangeA:
		return m.countA
	case model.RangeB:
		return m.countB
	}
	panic(fmt.Sprintf("pageindex: unknown content range %d", int(r)))
}

// VisualCount returns the number of slots on the scroll axis
func (m *Mapper) VisualCount() int {
	return m.countA + m.countB + BufferSlots
}

// ToVisual maps a logical page to its slot
func (m *Mapper) ToVisual(logical int, r model.ContentRange) int {
	count := m.Count(r)
	if logical < 0 || logical >= count {
		panic(fmt.Sprintf("pageindex: page %d out of range %s[0,%d)", logical, r, count))
	}
	if r == model.RangeA {
		return logical
	}
	return logical + m.countA + BufferSlots
}

// ToLogical maps a slot back to its page, clamping out-of-range slots to the
// nearest page and buffer slots to the page on their own side
func (m *Mapper) ToLogical(visual int) (int, model.ContentRange) {
	switch {
	case visual < m.countA:
		if visual < 0 {
			visual = 0
		}
		if m.countA == 0 {
			return 0, model.RangeB
		}
		return visual, model.RangeA
	case visual == m.countA && m.countA > 0:
		return m.countA - 1, model.RangeA
	case m.countB == 0:
		if m.countA == 0 {
			return 0, model.RangeA
		}
		return m.countA - 1, model.RangeA
	}
	logical := visual - m.countA - BufferSlots
	if logical < 0 {
		logical = 0
	}
	if logical >= m.countB {
		logical = m.countB - 1
	}
	return logical, model.RangeB
}

// IsBuffer reports whether visual is one of the two buffer slots
func (m *Mapper) IsBuffer(visual int) bool {
	return visual == m.countA || visual == m.countA+1
}

// Mirror returns the page a buffer slot pre-renders
func (m *Mapper) Mirror(visual int) (int, model.ContentRange, bool) {
	switch {
	case visual == m.countA && m.countA > 0:
		return 0, model.RangeA, true
	case visual == m.countA+1 && m.countB > 0:
		return m.countB - 1, model.RangeB, true
	}
	return 0, model.RangeA, false
}

// RangeOf returns the range owning visual; buffer slots belong to the range
// whose page they mirror
func (m *Mapper) RangeOf(visual int) model.ContentRange {
	if visual <= m.countA {
		return model.RangeA
	}
	return model.RangeB
}

// Resolve wraps an out-of-range logical index into r: -1 becomes the last
// page, count becomes the first
func (m *Mapper) Resolve(logical int, r model.ContentRange) int {
	count := m.Count(r)
	if count == 0 {
		panic(fmt.Sprintf("pageindex: cannot resolve page %d in empty %s", logical, r))
	}
	logical %= count
	if logical < 0 {
		logical += count
	}
	return logical
}

// Bounds returns the first and last slot of r
func (m *Mapper) Bounds(r model.ContentRange) (int, int) {
	count := m.Count(r)
	if count == 0 {
		panic(fmt.Sprintf("pageindex: %s is empty", r))
	}
	first := m.ToVisual(0, r)
	return first, first + count - 1
}

// Wrap returns the offset normalization for circular paging inside r, in
// pixels for the given slot width. Range A wraps within [first, first+count)
// using the buffer slot after it; range B wraps within (first-1, last] using
// the buffer slot before it. Offsets never rest on a buffer slot.
func (m *Mapper) Wrap(r model.ContentRange, slotWidth float32) func(offset float32) (float32, bool) {
	count := m.Count(r)
	if count == 0 || slotWidth <= 0 {
		return nil
	}
	first, last := m.Bounds(r)
	period := float32(count) * slotWidth
	lo := float32(first) * slotWidth
	hi := float32(last) * slotWidth

	if r == model.RangeA {
		return func(x float32) (float32, bool) {
			wrapped := false
			for x < lo {
				x += period
				wrapped = true
			}
			for x >= lo+period {
				x -= period
				wrapped = true
			}
			return x, wrapped
		}
	}
	return func(x float32) (float32, bool) {
		wrapped := false
		for x <= hi-period {
			x += period
			wrapped = true
		}
		for x > hi {
			x -= period
			wrapped = true
		}
		return x, wrapped
	}
}

// Descriptors builds one descriptor per logical page in visual order. ids are
// the persisted page ids in the same order; missing ids are synthesized.
func (m *Mapper) Descriptors(ids []string) []model.PageDescriptor {
	out := make([]model.PageDescriptor, 0, m.countA+m.countB)
	n := 0
	for _, r := range []model.ContentRange{model.RangeA, model.RangeB} {
		for i := 0; i < m.Count(r); i++ {
			id := fmt.Sprintf("%s-%d", r, i)
			if n < len(ids) {
				id = ids[n]
			}
			out = append(out, model.PageDescriptor{
				ID:           id,
				LogicalIndex: i,
				Range:        r,
				Dirty:        true,
				VisualSlot:   m.ToVisual(i, r),
			})
			n++
		}
	}
	return out
}
