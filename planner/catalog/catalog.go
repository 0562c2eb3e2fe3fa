package catalog

import (
	"fmt"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/sourcegraph/conc/iter"

	internal "github.com/campusapps/courseplanner/planner"
)

// Catalog owns the full set of course records for one catalog snapshot.
// It is built once and never mutated; replacing the snapshot means
// building a fresh Catalog. Records are reachable by course id and kept
// in snapshot order, which is the deterministic scan order every query
// uses.
type Catalog struct {
	records       []*CourseRecord // insertion (snapshot) order
	byID          map[int]*CourseRecord
	bitmaps       *filterBitmaps
	subjects      *subjectIndex
	assertHandler *assert.AssertHandler
}

type entryResult struct {
	record *CourseRecord
	err    error
}

// NewCatalog builds a catalog from a snapshot of raw course entries.
// Malformed entries are skipped with a warning rather than aborting the
// build: catalog data is externally sourced and one bad entry should not
// break browsing. A duplicate course id counts as malformed and the later
// entry loses.
func NewCatalog(entries []SnapshotEntry) (*Catalog, error) {
	if entries == nil {
		return nil, fmt.Errorf("catalog snapshot must not be nil")
	}
	logger := internal.GetLogger()

	// Entry conversion is pure per entry, so it parallelizes cleanly;
	// iter.Map preserves snapshot order.
	converted := iter.Map(entries, func(e *SnapshotEntry) entryResult {
		record, err := e.toRecord()
		return entryResult{record: record, err: err}
	})

	cat := &Catalog{
		byID:          make(map[int]*CourseRecord, len(entries)),
		bitmaps:       newFilterBitmaps(),
		subjects:      newSubjectIndex(),
		assertHandler: assert.NewAssertHandler(),
	}

	for i, res := range converted {
		if res.err != nil {
			logger.Warn().
				Int("course_id", entries[i].CourseID).
				Err(res.err).
				Msg("skipping malformed snapshot entry")
			continue
		}
		record := res.record
		if _, exists := cat.byID[record.id]; exists {
			logger.Warn().
				Int("course_id", record.id).
				Msg("skipping snapshot entry with duplicate course id")
			continue
		}

		ordinal := uint32(len(cat.records))
		cat.records = append(cat.records, record)
		cat.byID[record.id] = record
		cat.bitmaps.add(ordinal, record)
		cat.subjects.insert(record.subject)
	}

	return cat, nil
}

// Len returns the number of records in the catalog.
func (cat *Catalog) Len() int { return len(cat.records) }

// ByID returns the record with the given identifier. Absence is a normal
// outcome, not an error; the UI routinely probes for ids that may not
// exist.
func (cat *Catalog) ByID(id int) (*CourseRecord, bool) {
	record, ok := cat.byID[id]
	return record, ok
}

// RecordAt returns the record at the given insertion ordinal, or nil when
// the ordinal is out of range. Ordinals are the values stored in the
// bitmaps returned by FilterMatches.
func (cat *Catalog) RecordAt(ordinal uint32) *CourseRecord {
	if int(ordinal) >= len(cat.records) {
		return nil
	}
	return cat.records[ordinal]
}

// Records returns all records in insertion order.
func (cat *Catalog) Records() []*CourseRecord {
	out := make([]*CourseRecord, len(cat.records))
	copy(out, cat.records)
	return out
}

// AllSections returns every record sharing the given course's category,
// including the course itself, in insertion order.
func (cat *Catalog) AllSections(of *CourseRecord) []*CourseRecord {
	if of == nil {
		return nil
	}
	var sections []*CourseRecord
	for _, record := range cat.records {
		if record.category == of.category {
			sections = append(sections, record)
		}
	}
	return sections
}

// AllCrosslistedSections returns every record whose crosslist group
// intersects the given course's, in insertion order. The scan is over raw
// group intersection, so the course itself is included whenever its own
// group is non-empty.
func (cat *Catalog) AllCrosslistedSections(of *CourseRecord) []*CourseRecord {
	if of == nil {
		return nil
	}
	var sections []*CourseRecord
	for _, record := range cat.records {
		if groupsIntersect(record.crosslistGroup, of.crosslistGroup) {
			sections = append(sections, record)
		}
	}
	return sections
}

// FilterMatches evaluates a filter selection over the whole catalog and
// returns the bitmap of matching insertion ordinals. The caller owns the
// returned bitmap.
func (cat *Catalog) FilterMatches(f Filter) *roaring.Bitmap {
	return cat.bitmaps.matches(f)
}

// SubjectsWithPrefix returns the subject codes starting with the given
// prefix, for the filter panel's department autocomplete.
func (cat *Catalog) SubjectsWithPrefix(prefix string) []string {
	return cat.subjects.withPrefix(prefix)
}

// AllInstructorNames returns the set of non-empty instructor names across
// the catalog, for populating the filter UI.
func (cat *Catalog) AllInstructorNames() map[string]struct{} {
	set := make(map[string]struct{})
	for _, record := range cat.records {
		for _, instructor := range record.instructors {
			set[instructor.Name] = struct{}{}
		}
	}
	delete(set, "")
	return set
}

// AllDepartments returns the set of non-empty subject codes.
func (cat *Catalog) AllDepartments() map[string]struct{} {
	set := make(map[string]struct{})
	for _, record := range cat.records {
		set[record.subject] = struct{}{}
	}
	delete(set, "")
	return set
}

// AllSchools returns the set of non-empty school and college names.
func (cat *Catalog) AllSchools() map[string]struct{} {
	set := make(map[string]struct{})
	for _, record := range cat.records {
		set[record.school] = struct{}{}
		set[record.college] = struct{}{}
	}
	delete(set, "")
	return set
}
