package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Distribution identifies the distribution credit group a course belongs to.
type Distribution int

const (
	DistributionNone Distribution = iota
	DistributionD1
	DistributionD2
	DistributionD3
)

// Instructor is one member of a course's teaching staff.
type Instructor struct {
	Name string `json:"name"`
}

// MeetingTime is a half-open [Start, End) block in minutes since midnight
// on a single weekday.
type MeetingTime struct {
	Day   time.Weekday `json:"day"`
	Start int          `json:"start"`
	End   int          `json:"end"`
}

// Filter is one immutable filter selection supplied by the UI per query.
// The distribution toggles are OR-combined: a course passes if it belongs
// to at least one enabled group. Disabling every toggle excludes nothing.
type Filter struct {
	Normal           bool
	D1               bool
	D2               bool
	D3               bool
	IndependentStudy bool
	HideConflicts    bool
	HideFull         bool
}

// DefaultFilter mirrors the search panel's initial checkbox state: every
// distribution group enabled, conflict and full hiding disabled.
func DefaultFilter() Filter {
	return Filter{Normal: true, D1: true, D2: true, D3: true, IndependentStudy: true}
}

func (f Filter) distributionsDisabled() bool {
	return !f.Normal && !f.D1 && !f.D2 && !f.D3 && !f.IndependentStudy
}

// Match score tiers. Values only need to be monotone in match strength;
// the number bonus is additive and independent of the text signals.
const (
	scoreBrowse          = 1
	scoreInstructorMatch = 10
	scoreTitleMatch      = 20
	scoreSubjectMatch    = 30
	scoreSubjectExact    = 60
	scoreNumberBonus     = 50
)

// CourseRecord is one offering (section) of a course. Records are built
// once during catalog construction and never mutated afterwards, so they
// are safe to share across concurrent searches.
type CourseRecord struct {
	id               int
	category         string
	crosslistGroup   []string
	subject          string
	number           int
	title            string
	instructors      []Instructor
	school           string
	college          string
	distribution     Distribution
	independentStudy bool
	meetingTimes     []MeetingTime
	capacity         int
	enrollment       int
}

// ID returns the record's externally assigned unique identifier.
func (c *CourseRecord) ID() int { return c.id }

// Category returns the key grouping all sections of the same course.
func (c *CourseRecord) Category() string { return c.category }

// CrosslistGroup returns a copy of the record's crosslist group memberships.
func (c *CourseRecord) CrosslistGroup() []string {
	out := make([]string, len(c.crosslistGroup))
	copy(out, c.crosslistGroup)
	return out
}

func (c *CourseRecord) Subject() string { return c.subject }
func (c *CourseRecord) Number() int     { return c.number }
func (c *CourseRecord) Title() string   { return c.title }
func (c *CourseRecord) School() string  { return c.school }
func (c *CourseRecord) College() string { return c.college }

// Instructors returns a copy of the record's teaching staff.
func (c *CourseRecord) Instructors() []Instructor {
	out := make([]Instructor, len(c.instructors))
	copy(out, c.instructors)
	return out
}

func (c *CourseRecord) Distribution() Distribution { return c.distribution }
func (c *CourseRecord) IsIndependentStudy() bool   { return c.independentStudy }

// MeetingTimes returns a copy of the record's meeting blocks.
func (c *CourseRecord) MeetingTimes() []MeetingTime {
	out := make([]MeetingTime, len(c.meetingTimes))
	copy(out, c.meetingTimes)
	return out
}

func (c *CourseRecord) EnrollmentCapacity() int { return c.capacity }
func (c *CourseRecord) Enrollment() int         { return c.enrollment }

// IsFull reports whether the section has no seats left.
func (c *CourseRecord) IsFull() bool { return c.enrollment >= c.capacity }

// Code returns the "SUBJ NUM" display form of the course.
func (c *CourseRecord) Code() string {
	return fmt.Sprintf("%s %d", c.subject, c.number)
}

// MatchScore rates how well the record matches a free-text query. Zero
// means no match at all and the record must be skipped. Matching is
// case-insensitive: an exact subject-code match scores highest, substring
// matches on subject, title, and instructor names score lower tiers, and
// numberToken (extracted from the query by the caller) equal to the course
// number adds a bonus independent of any text match. An empty query
// matches everything with a minimal score so browse mode can list the
// whole catalog.
func (c *CourseRecord) MatchScore(query, numberToken string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return scoreBrowse
	}

	score := 0
	subject := strings.ToLower(c.subject)
	switch {
	case subject == q:
		score += scoreSubjectExact
	case subject != "" && (strings.Contains(subject, q) || strings.Contains(q, subject)):
		score += scoreSubjectMatch
	}

	if title := strings.ToLower(c.title); title != "" && strings.Contains(title, q) {
		score += scoreTitleMatch
	}

	for _, instructor := range c.instructors {
		name := strings.ToLower(instructor.Name)
		if name != "" && strings.Contains(name, q) {
			score += scoreInstructorMatch
			break
		}
	}

	if numberToken != "" {
		if n, err := strconv.Atoi(numberToken); err == nil && n == c.number {
			score += scoreNumberBonus
		}
	}

	return score
}

// PassesFilters evaluates the distribution toggles and the full-course
// filter. Conflict hiding and plan exclusion need cross-record state the
// record does not own; those belong to the query engine.
func (c *CourseRecord) PassesFilters(f Filter) bool {
	if f.HideFull && c.IsFull() {
		return false
	}
	return c.matchesDistribution(f)
}

func (c *CourseRecord) matchesDistribution(f Filter) bool {
	if f.distributionsDisabled() {
		return true
	}
	if f.IndependentStudy && c.independentStudy {
		return true
	}
	switch c.distribution {
	case DistributionD1:
		return f.D1
	case DistributionD2:
		return f.D2
	case DistributionD3:
		return f.D3
	default:
		return f.Normal
	}
}

// IsCrosslistedWith reports whether two distinct records share a crosslist
// group. The predicate is symmetric and never true for the same record.
func (c *CourseRecord) IsCrosslistedWith(other *CourseRecord) bool {
	if other == nil || other == c {
		return false
	}
	return groupsIntersect(c.crosslistGroup, other.crosslistGroup)
}

// groupsIntersect checks set intersection on the (small) crosslist groups.
func groupsIntersect(a, b []string) bool {
	for _, ga := range a {
		for _, gb := range b {
			if ga == gb {
				return true
			}
		}
	}
	return false
}
