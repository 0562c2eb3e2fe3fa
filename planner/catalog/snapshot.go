package catalog

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// SnapshotEntry is one raw course entry as supplied by the external
// loader. The JSON tags exist for the loader's convenience; this package
// performs no I/O itself. Entries are validated once at catalog
// construction and converted into typed, immutable course records so that
// no loosely-typed lookups survive into the query path.
type SnapshotEntry struct {
	CourseID           int           `json:"courseId"`
	Category           string        `json:"category"`
	CrosslistGroup     []string      `json:"crosslistGroup"`
	Subject            string        `json:"subject"`
	Number             int           `json:"number"`
	Title              string        `json:"title"`
	Instructors        []Instructor  `json:"instructors"`
	School             string        `json:"school"`
	College            string        `json:"college"`
	Distribution       int           `json:"distribution"`
	IndependentStudy   bool          `json:"independentStudy"`
	MeetingTimes       []MeetingTime `json:"meetingTimes"`
	EnrollmentCapacity int           `json:"enrollmentCapacity"`
	Enrollment         int           `json:"enrollment"`
}

func (e *SnapshotEntry) validate() error {
	if e.CourseID <= 0 {
		return fmt.Errorf("invalid course id %d", e.CourseID)
	}
	if e.Category == "" {
		return fmt.Errorf("missing category")
	}
	if e.Subject == "" {
		return fmt.Errorf("missing subject")
	}
	if e.Number < 0 {
		return fmt.Errorf("invalid course number %d", e.Number)
	}
	if e.Distribution < int(DistributionNone) || e.Distribution > int(DistributionD3) {
		return fmt.Errorf("invalid distribution group %d", e.Distribution)
	}
	if e.EnrollmentCapacity < 0 || e.Enrollment < 0 {
		return fmt.Errorf("invalid enrollment %d/%d", e.Enrollment, e.EnrollmentCapacity)
	}
	for _, mt := range e.MeetingTimes {
		if mt.Day < time.Sunday || mt.Day > time.Saturday {
			return fmt.Errorf("invalid meeting day %d", mt.Day)
		}
		if mt.Start < 0 || mt.End > minutesPerDay || mt.Start >= mt.End {
			return fmt.Errorf("invalid meeting interval [%d, %d)", mt.Start, mt.End)
		}
	}
	return nil
}

// toRecord validates the entry and converts it into an immutable course
// record. Slices are copied so later mutation of the snapshot cannot
// reach into the catalog.
func (e *SnapshotEntry) toRecord() (*CourseRecord, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	record := &CourseRecord{
		id:               e.CourseID,
		category:         e.Category,
		crosslistGroup:   make([]string, len(e.CrosslistGroup)),
		subject:          e.Subject,
		number:           e.Number,
		title:            e.Title,
		instructors:      make([]Instructor, len(e.Instructors)),
		school:           e.School,
		college:          e.College,
		distribution:     Distribution(e.Distribution),
		independentStudy: e.IndependentStudy,
		meetingTimes:     make([]MeetingTime, len(e.MeetingTimes)),
		capacity:         e.EnrollmentCapacity,
		enrollment:       e.Enrollment,
	}
	copy(record.crosslistGroup, e.CrosslistGroup)
	copy(record.instructors, e.Instructors)
	copy(record.meetingTimes, e.MeetingTimes)

	return record, nil
}
