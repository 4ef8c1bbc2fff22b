package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

type catalogRepository interface {
	List(ctx context.Context, filter models.CourseFilter, window models.SessionWindowFilter) ([]models.Course, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

type catalogSessionReader interface {
	ListByCourses(ctx context.Context, courseIDs []int64) (map[int64][]models.CourseSession, error)
}

type activeEnrollmentReader interface {
	ListActiveByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error)
}

// CombinedCourseQuery carries both optional condition groups of a catalog
// search. Each populated field adds one AND-composed predicate; a wholly
// empty query returns the full catalog.
type CombinedCourseQuery struct {
	Course  models.CourseFilter
	Session models.SessionWindowFilter
	// StudentID, when set, marks each result with is_enrolled.
	StudentID *int64
}

// CourseService serves the catalog: combined search and attribute value
// enumeration.
type CourseService struct {
	courses     catalogRepository
	sessions    catalogSessionReader
	enrollments activeEnrollmentReader
	cache       *CacheService
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses catalogRepository, sessions catalogSessionReader, enrollments activeEnrollmentReader, cache *CacheService, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, sessions: sessions, enrollments: enrollments, cache: cache, logger: logger}
}

// Search returns courses matching the combined query, each with its
// sessions. Anonymous searches are cached; per-student flags are always
// computed fresh.
func (s *CourseService) Search(ctx context.Context, query CombinedCourseQuery) ([]models.CourseWithSessions, error) {
	cacheKey := ""
	if query.StudentID == nil {
		cacheKey = searchCacheKey(query)
		var cached []models.CourseWithSessions
		if s.cache.Get(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	courses, err := s.courses.List(ctx, query.Course, query.Session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}
	if len(courses) == 0 {
		return []models.CourseWithSessions{}, nil
	}

	courseIDs := make([]int64, len(courses))
	for i, c := range courses {
		courseIDs[i] = c.ID
	}
	sessions, err := s.sessions.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	enrolledSet := map[int64]struct{}{}
	if query.StudentID != nil {
		active, err := s.enrollments.ListActiveByStudent(ctx, *query.StudentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
		}
		for _, e := range active {
			enrolledSet[e.CourseID] = struct{}{}
		}
	}

	out := make([]models.CourseWithSessions, 0, len(courses))
	for _, course := range courses {
		item := models.CourseWithSessions{
			Course:   course,
			Sessions: orEmptySessions(sessions[course.ID]),
		}
		if query.StudentID != nil {
			_, enrolled := enrolledSet[course.ID]
			item.IsEnrolled = &enrolled
		}
		out = append(out, item)
	}

	if cacheKey != "" {
		s.cache.Set(ctx, cacheKey, out, 0)
	}
	return out, nil
}

// ListByIDs assembles catalog entries for specific courses, used by the
// recommendation flow.
func (s *CourseService) ListByIDs(ctx context.Context, ids []int64) ([]models.CourseWithSessions, error) {
	if len(ids) == 0 {
		return []models.CourseWithSessions{}, nil
	}
	courses, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	sessions, err := s.sessions.ListByCourses(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	out := make([]models.CourseWithSessions, 0, len(courses))
	for _, course := range courses {
		out = append(out, models.CourseWithSessions{
			Course:   course,
			Sessions: orEmptySessions(sessions[course.ID]),
		})
	}
	return out, nil
}

// Course attributes enumerable through AttributeValues. An explicit mapping
// from name to accessor replaces the legacy reflection lookup; unknown names
// are rejected up front.
var (
	courseStringAttributes = map[string]func(models.Course) string{
		"course_name":     func(c models.Course) string { return c.Name },
		"course_type":     func(c models.Course) string { return c.Type },
		"college":         func(c models.Course) string { return c.College },
		"instructor_name": func(c models.Course) string { return c.InstructorName },
		"campus":          func(c models.Course) string { return c.Campus },
		"classroom":       func(c models.Course) string { return c.Classroom },
	}
	courseIntAttributes = map[string]func(models.Course) (int, bool){
		"credits":    func(c models.Course) (int, bool) { return c.Credits, true },
		"start_week": func(c models.Course) (int, bool) { return c.StartWeek, true },
		"end_week":   func(c models.Course) (int, bool) { return c.EndWeek, true },
		"capacity": func(c models.Course) (int, bool) {
			if c.Capacity == nil {
				return 0, false
			}
			return *c.Capacity, true
		},
	}
)

// AttributeValues returns the distinct, sorted values of one course attribute
// across the filtered catalog. String attributes sort lexically, numeric ones
// numerically.
func (s *CourseService) AttributeValues(ctx context.Context, attribute string, filter models.CourseFilter) ([]string, error) {
	stringFn, isString := courseStringAttributes[attribute]
	intFn, isInt := courseIntAttributes[attribute]
	if !isString && !isInt {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course attribute %q", attribute))
	}

	courses, err := s.courses.List(ctx, filter, models.SessionWindowFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	if isString {
		seen := map[string]struct{}{}
		var values []string
		for _, c := range courses {
			v := stringFn(c)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		return values, nil
	}

	seen := map[int]struct{}{}
	var nums []int
	for _, c := range courses {
		v, ok := intFn(c)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		nums = append(nums, v)
	}
	sort.Ints(nums)
	values := make([]string, len(nums))
	for i, n := range nums {
		values[i] = strconv.Itoa(n)
	}
	return values, nil
}

// searchCacheKey folds the query into a stable cache key.
func searchCacheKey(query CombinedCourseQuery) string {
	payload, err := json.Marshal(query)
	if err != nil {
		return "catalog:search:all"
	}
	h := fnv.New64a()
	h.Write(payload) //nolint:errcheck
	return fmt.Sprintf("catalog:search:%x", h.Sum64())
}
