package schedule

import (
	"sort"
	"time"

	"github.com/campusapps/courseplanner/planner/catalog"
)

// interval is one committed meeting block, half-open in minutes since
// midnight.
type interval struct {
	start int
	end   int
}

// ConflictIndex answers whether a candidate course overlaps any meeting
// of an already-scheduled course. It partitions the committed meeting
// blocks by weekday and coalesces them into disjoint sorted intervals, so
// each candidate block needs a single binary search instead of a scan
// over the whole schedule. The index is immutable after build; the query
// engine rebuilds it once per query execution because the schedule may
// have changed between calls.
type ConflictIndex struct {
	days map[time.Weekday][]interval
}

// BuildConflictIndex builds a conflict index from the user's scheduled
// courses.
func BuildConflictIndex(scheduled []*catalog.CourseRecord) *ConflictIndex {
	idx := &ConflictIndex{days: make(map[time.Weekday][]interval)}
	for _, course := range scheduled {
		if course == nil {
			continue
		}
		for _, mt := range course.MeetingTimes() {
			idx.days[mt.Day] = append(idx.days[mt.Day], interval{start: mt.Start, end: mt.End})
		}
	}
	for day, blocks := range idx.days {
		idx.days[day] = coalesce(blocks)
	}
	return idx
}

// coalesce sorts intervals by start and merges overlapping or touching
// ones. Disjoint intervals keep both starts and ends sorted, which the
// binary search in HasConflictWith relies on.
func coalesce(blocks []interval) []interval {
	if len(blocks) == 0 {
		return blocks
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })

	merged := blocks[:1]
	for _, block := range blocks[1:] {
		last := &merged[len(merged)-1]
		if block.start <= last.end {
			if block.end > last.end {
				last.end = block.end
			}
			continue
		}
		merged = append(merged, block)
	}
	return merged
}

// HasConflictWith reports whether any of the candidate's meeting blocks
// overlaps a committed block on the same day. Overlap is half-open:
// [10:00, 11:00) does not conflict with [11:00, 12:00). Returns true on
// the first overlap found.
func (ci *ConflictIndex) HasConflictWith(candidate *catalog.CourseRecord) bool {
	if ci == nil || candidate == nil {
		return false
	}
	for _, mt := range candidate.MeetingTimes() {
		blocks := ci.days[mt.Day]
		if len(blocks) == 0 {
			continue
		}
		// First committed block ending after the candidate starts;
		// it is the only one that can overlap.
		i := sort.Search(len(blocks), func(i int) bool { return blocks[i].end > mt.Start })
		if i < len(blocks) && blocks[i].start < mt.End {
			return true
		}
	}
	return false
}
