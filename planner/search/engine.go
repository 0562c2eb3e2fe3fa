package search

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	internal "github.com/campusapps/courseplanner/planner"
	"github.com/campusapps/courseplanner/planner/catalog"
	"github.com/campusapps/courseplanner/planner/config"
	"github.com/campusapps/courseplanner/planner/schedule"
)

// UserPlan exposes the course lists the engine consults for exclusion and
// conflict detection. The plan is read-only to the engine; conflict
// detection uses only the schedule list, exclusion uses both.
type UserPlan interface {
	CoursesInSchedule() []*catalog.CourseRecord
	CoursesInPlayground() []*catalog.CourseRecord
}

// EngineStats tracks performance metrics across queries.
type EngineStats struct {
	Queries          int64
	ResultsReturned  int64
	AverageQueryTime time.Duration
	mu               sync.RWMutex
}

// numberTokenPattern captures the first run of one to three digits not
// immediately preceded by another digit.
var numberTokenPattern = regexp.MustCompile(`(?:^|[^0-9])([0-9]{1,3})`)

// Engine answers interactive search queries against one catalog. It holds
// no mutable state besides the internally locked stats counters, so
// concurrent Search calls are safe; each call builds its own transient
// conflict index and result list.
type Engine struct {
	catalog       *catalog.Catalog
	defaultLimit  int
	browseOnEmpty bool
	stats         *EngineStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultLimit sets the result cap used by SearchDefault.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) { e.defaultLimit = limit }
}

// WithEmptyQueryBrowsing toggles whether an empty query lists the whole
// catalog or returns nothing.
func WithEmptyQueryBrowsing(enabled bool) Option {
	return func(e *Engine) { e.browseOnEmpty = enabled }
}

// WithConfig applies the search section of a loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		if cfg.Search.DefaultLimit > 0 {
			e.defaultLimit = cfg.Search.DefaultLimit
		}
		e.browseOnEmpty = cfg.Search.BrowseOnEmptyQuery
	}
}

// NewEngine creates a query engine over the given catalog.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:       cat,
		defaultLimit:  internal.DefaultResultLimit,
		browseOnEmpty: true,
		stats:         &EngineStats{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultLimit returns the engine's configured result cap.
func (e *Engine) DefaultLimit() int { return e.defaultLimit }

// SearchDefault runs Search with the engine's configured default limit.
func (e *Engine) SearchDefault(query string, filters catalog.Filter, plan UserPlan) []*catalog.CourseRecord {
	return e.Search(query, filters, plan, e.defaultLimit)
}

type scoredRecord struct {
	record *catalog.CourseRecord
	score  int
}

// Search returns up to limit courses matching the query and filter
// selection, sorted by score descending with ties broken by subject then
// course number. Courses whose category is already on the user's schedule
// or playground are excluded, and at most one section per category is
// returned: the first one encountered in catalog order keeps the slot
// even if a later sibling section would score higher.
func (e *Engine) Search(query string, filters catalog.Filter, plan UserPlan, limit int) []*catalog.CourseRecord {
	start := time.Now()

	results := e.run(query, filters, plan, limit)

	duration := time.Since(start)
	e.recordQuery(len(results), duration)
	slog.Debug("course search completed",
		"query", query,
		"limit", limit,
		"results_count", len(results),
		"duration", duration)

	return results
}

func (e *Engine) run(query string, filters catalog.Filter, plan UserPlan, limit int) []*catalog.CourseRecord {
	// An invalid limit means zero results, not an error.
	if limit <= 0 {
		return []*catalog.CourseRecord{}
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" && !e.browseOnEmpty {
		return []*catalog.CourseRecord{}
	}

	numberToken := extractNumberToken(trimmed)

	// The schedule may have changed since the previous call, so the
	// conflict index is rebuilt on every query that needs it.
	var conflicts *schedule.ConflictIndex
	if plan != nil && filters.HideConflicts {
		conflicts = schedule.BuildConflictIndex(plan.CoursesInSchedule())
	}

	var accepted []scoredRecord
	usedCategories := make(map[string]struct{})

	// Bitmap iteration is ascending over insertion ordinals, preserving
	// the catalog's deterministic scan order.
	it := e.catalog.FilterMatches(filters).Iterator()
	for it.HasNext() {
		record := e.catalog.RecordAt(it.Next())

		score := record.MatchScore(trimmed, numberToken)
		if score <= 0 {
			continue
		}

		category := record.Category()
		if _, used := usedCategories[category]; used {
			continue
		}
		if plan != nil && ContainsCategory(plan, category) {
			continue
		}
		if conflicts != nil && conflicts.HasConflictWith(record) {
			continue
		}

		accepted = append(accepted, scoredRecord{record: record, score: score})
		usedCategories[category] = struct{}{}
	}

	// Sorting order: SCORE DESC, SUBJECT ASC, COURSE NUMBER ASC. The
	// stable sort keeps catalog order for full ties.
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].score != accepted[j].score {
			return accepted[i].score > accepted[j].score
		}
		si := strings.ToLower(accepted[i].record.Subject())
		sj := strings.ToLower(accepted[j].record.Subject())
		if si != sj {
			return si < sj
		}
		return accepted[i].record.Number() < accepted[j].record.Number()
	})

	if len(accepted) > limit {
		accepted = accepted[:limit]
	}

	results := make([]*catalog.CourseRecord, len(accepted))
	for i, sr := range accepted {
		results[i] = sr.record
	}
	return results
}

// ContainsCategory reports whether a course of the given category is
// already present on the user's playground or schedule.
func ContainsCategory(plan UserPlan, category string) bool {
	if plan == nil {
		return false
	}
	for _, course := range plan.CoursesInPlayground() {
		if course != nil && course.Category() == category {
			return true
		}
	}
	for _, course := range plan.CoursesInSchedule() {
		if course != nil && course.Category() == category {
			return true
		}
	}
	return false
}

// extractNumberToken pulls at most one embedded course number out of a
// query, e.g. "math 101" and "phys101" both yield "101".
func extractNumberToken(query string) string {
	m := numberTokenPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

func (e *Engine) recordQuery(resultCount int, duration time.Duration) {
	s := e.stats
	s.mu.Lock()
	s.Queries++
	s.ResultsReturned += int64(resultCount)
	s.AverageQueryTime = ((s.AverageQueryTime * time.Duration(s.Queries-1)) + duration) / time.Duration(s.Queries)
	s.mu.Unlock()
}

// Stats returns a snapshot of the engine's performance counters.
func (e *Engine) Stats() EngineStats {
	e.stats.mu.RLock()
	defer e.stats.mu.RUnlock()

	return EngineStats{
		Queries:          e.stats.Queries,
		ResultsReturned:  e.stats.ResultsReturned,
		AverageQueryTime: e.stats.AverageQueryTime,
	}
}
