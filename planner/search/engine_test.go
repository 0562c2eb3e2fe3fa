package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusapps/courseplanner/planner/catalog"
	"github.com/campusapps/courseplanner/planner/config"
)

type fakePlan struct {
	schedule   []*catalog.CourseRecord
	playground []*catalog.CourseRecord
}

func (p *fakePlan) CoursesInSchedule() []*catalog.CourseRecord   { return p.schedule }
func (p *fakePlan) CoursesInPlayground() []*catalog.CourseRecord { return p.playground }

func testSnapshot() []catalog.SnapshotEntry {
	return []catalog.SnapshotEntry{
		{
			CourseID: 1, Category: "MATH101", Subject: "MATH", Number: 101,
			Title: "Single Variable Calculus",
			MeetingTimes: []catalog.MeetingTime{
				{Day: time.Monday, Start: 600, End: 660},
			},
			EnrollmentCapacity: 30, Enrollment: 10,
		},
		{
			CourseID: 2, Category: "MATH101", Subject: "MATH", Number: 101,
			Title: "Single Variable Calculus",
			MeetingTimes: []catalog.MeetingTime{
				{Day: time.Wednesday, Start: 600, End: 660},
			},
			EnrollmentCapacity: 30, Enrollment: 10,
		},
		{
			CourseID: 3, Category: "MATH201", Subject: "MATH", Number: 201,
			Title: "Multivariable Calculus", EnrollmentCapacity: 30, Enrollment: 10,
		},
		{
			CourseID: 4, Category: "PHYS102", Subject: "PHYS", Number: 102,
			Title: "Mechanics", Distribution: int(catalog.DistributionD3),
			MeetingTimes: []catalog.MeetingTime{
				{Day: time.Tuesday, Start: 870, End: 930},
			},
			EnrollmentCapacity: 40, Enrollment: 10,
		},
		{
			CourseID: 5, Category: "HIST210", Subject: "HIST", Number: 210,
			Title: "Modern Europe", Distribution: int(catalog.DistributionD1),
			EnrollmentCapacity: 25, Enrollment: 25,
		},
		{
			CourseID: 6, Category: "BIOL310", Subject: "BIOL", Number: 310,
			Title: "Genetics Research", IndependentStudy: true,
			EnrollmentCapacity: 10, Enrollment: 2,
		},
	}
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat, err := catalog.NewCatalog(testSnapshot())
	require.NoError(t, err)
	return NewEngine(cat, opts...)
}

// planCourse builds a standalone record for a user plan, outside the
// engine's catalog.
func planCourse(t *testing.T, id int, category string, meetings ...catalog.MeetingTime) *catalog.CourseRecord {
	t.Helper()
	cat, err := catalog.NewCatalog([]catalog.SnapshotEntry{{
		CourseID: id, Category: category, Subject: "PLAN", Number: id,
		MeetingTimes: meetings, EnrollmentCapacity: 10,
	}})
	require.NoError(t, err)
	record, ok := cat.ByID(id)
	require.True(t, ok)
	return record
}

func ids(records []*catalog.CourseRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func TestEngine(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"NumberQueryScenario", testEngineNumberQueryScenario},
		{"SectionDeduplication", testEngineSectionDeduplication},
		{"BrowseSortOrder", testEngineBrowseSortOrder},
		{"Limit", testEngineLimit},
		{"PlanExclusion", testEnginePlanExclusion},
		{"ConflictHiding", testEngineConflictHiding},
		{"HideFull", testEngineHideFull},
		{"DistributionFilters", testEngineDistributionFilters},
		{"EmptyQueryPolicy", testEngineEmptyQueryPolicy},
		{"EmptyCatalog", testEngineEmptyCatalog},
		{"ConfigOption", testEngineConfigOption},
		{"Stats", testEngineStats},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testEngineNumberQueryScenario(t *testing.T) {
	e := testEngine(t)

	// Two sections of MATH 101 (ids 1, 2) and one MATH 201 (id 3):
	// querying "101" returns exactly the first-encountered 101 section.
	results := e.Search("101", catalog.DefaultFilter(), nil, 250)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID())
}

func testEngineSectionDeduplication(t *testing.T) {
	e := testEngine(t)

	results := e.Search("math", catalog.DefaultFilter(), nil, 250)
	seen := make(map[string]int)
	for _, record := range results {
		seen[record.Category()]++
	}
	for category, count := range seen {
		assert.Equal(t, 1, count, "category %s appears more than once", category)
	}
	assert.Equal(t, []int{1, 3}, ids(results), "one section per category, 101 before 201 on equal scores")
}

func testEngineBrowseSortOrder(t *testing.T) {
	e := testEngine(t)

	// Empty query browses everything: uniform scores, so ordering falls
	// back to subject ascending, number ascending.
	results := e.Search("", catalog.DefaultFilter(), nil, 250)
	assert.Equal(t, []int{6, 5, 1, 3, 4}, ids(results))
}

func testEngineLimit(t *testing.T) {
	e := testEngine(t)

	assert.Len(t, e.Search("", catalog.DefaultFilter(), nil, 2), 2)
	assert.Empty(t, e.Search("", catalog.DefaultFilter(), nil, 0))
	assert.Empty(t, e.Search("", catalog.DefaultFilter(), nil, -5))

	assert.Len(t, e.SearchDefault("", catalog.DefaultFilter(), nil), 5)
}

func testEnginePlanExclusion(t *testing.T) {
	e := testEngine(t)

	// A plan holding any section of MATH101 excludes every section of
	// it, from either plan list, regardless of score.
	onSchedule := &fakePlan{schedule: []*catalog.CourseRecord{planCourse(t, 100, "MATH101")}}
	results := e.Search("math", catalog.DefaultFilter(), onSchedule, 250)
	assert.Equal(t, []int{3}, ids(results))

	inPlayground := &fakePlan{playground: []*catalog.CourseRecord{planCourse(t, 100, "MATH101")}}
	results = e.Search("math", catalog.DefaultFilter(), inPlayground, 250)
	assert.Equal(t, []int{3}, ids(results))

	assert.True(t, ContainsCategory(onSchedule, "MATH101"))
	assert.False(t, ContainsCategory(onSchedule, "MATH201"))
	assert.False(t, ContainsCategory(nil, "MATH101"))
}

func testEngineConflictHiding(t *testing.T) {
	e := testEngine(t)

	// Scheduled plan course meets Tuesday 14:00-15:00; catalog course 4
	// meets Tuesday 14:30-15:30.
	plan := &fakePlan{schedule: []*catalog.CourseRecord{
		planCourse(t, 100, "PLAN1", catalog.MeetingTime{Day: time.Tuesday, Start: 840, End: 900}),
	}}

	hide := catalog.DefaultFilter()
	hide.HideConflicts = true
	results := e.Search("phys", hide, plan, 250)
	assert.Empty(t, results, "conflicting candidate must be hidden")

	results = e.Search("phys", catalog.DefaultFilter(), plan, 250)
	assert.Equal(t, []int{4}, ids(results), "without hideConflicts the candidate is returned")

	// Without a plan there is nothing to conflict with.
	results = e.Search("phys", hide, nil, 250)
	assert.Equal(t, []int{4}, ids(results))
}

func testEngineHideFull(t *testing.T) {
	e := testEngine(t)

	hideFull := catalog.DefaultFilter()
	hideFull.HideFull = true

	assert.Empty(t, e.Search("hist", hideFull, nil, 250), "course 5 is at capacity")
	assert.Equal(t, []int{5}, ids(e.Search("hist", catalog.DefaultFilter(), nil, 250)))

	// One free seat brings it back.
	entries := testSnapshot()
	entries[4].Enrollment--
	cat, err := catalog.NewCatalog(entries)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ids(NewEngine(cat).Search("hist", hideFull, nil, 250)))
}

func testEngineDistributionFilters(t *testing.T) {
	e := testEngine(t)

	d1Only := catalog.Filter{D1: true}
	assert.Equal(t, []int{5}, ids(e.Search("", d1Only, nil, 250)))

	indepOnly := catalog.Filter{IndependentStudy: true}
	assert.Equal(t, []int{6}, ids(e.Search("", indepOnly, nil, 250)))

	// Disabling every toggle excludes nothing.
	assert.Len(t, e.Search("", catalog.Filter{}, nil, 250), 5)
}

func testEngineEmptyQueryPolicy(t *testing.T) {
	browsing := testEngine(t)
	assert.NotEmpty(t, browsing.Search("", catalog.DefaultFilter(), nil, 250))

	noBrowsing := testEngine(t, WithEmptyQueryBrowsing(false))
	assert.Empty(t, noBrowsing.Search("", catalog.DefaultFilter(), nil, 250))
	assert.Empty(t, noBrowsing.Search("   ", catalog.DefaultFilter(), nil, 250))
	assert.NotEmpty(t, noBrowsing.Search("math", catalog.DefaultFilter(), nil, 250))
}

func testEngineEmptyCatalog(t *testing.T) {
	cat, err := catalog.NewCatalog([]catalog.SnapshotEntry{})
	require.NoError(t, err)
	e := NewEngine(cat)

	assert.Empty(t, e.Search("", catalog.DefaultFilter(), nil, 250))
	assert.Empty(t, e.Search("math", catalog.DefaultFilter(), nil, 250))
}

func testEngineConfigOption(t *testing.T) {
	cfg := &config.Config{Search: config.SearchConfig{DefaultLimit: 2, BrowseOnEmptyQuery: false}}
	e := testEngine(t, WithConfig(cfg))

	assert.Equal(t, 2, e.DefaultLimit())
	assert.Empty(t, e.SearchDefault("", catalog.DefaultFilter(), nil))
	assert.Len(t, e.SearchDefault("math", catalog.DefaultFilter(), nil), 2)
}

func testEngineStats(t *testing.T) {
	e := testEngine(t)

	e.Search("math", catalog.DefaultFilter(), nil, 250)
	e.Search("", catalog.DefaultFilter(), nil, 250)

	stats := e.Stats()
	assert.Equal(t, int64(2), stats.Queries)
	assert.Equal(t, int64(7), stats.ResultsReturned)
	assert.GreaterOrEqual(t, stats.AverageQueryTime, time.Duration(0))
}

func TestExtractNumberToken(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"math 101", "101"},
		{"MATH101", "101"},
		{"101", "101"},
		{"42", "42"},
		{"no digits here", ""},
		{"", ""},
		{"room 9", "9"},
		{"phys 102 mechanics 301", "102"},
		{"1015", "101"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, extractNumberToken(tc.query), "query %q", tc.query)
	}
}
