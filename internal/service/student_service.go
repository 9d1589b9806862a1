package service

import (
	"math"
	"sort"
	"strings"

	"gradetracker/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string // "id", "name", "grade"; anything else keeps insertion order
	SortOrder string // "asc" or "desc"
	Name      string
	GradeMin  *float64
	GradeMax  *float64
}

type ListResult struct {
	Data       []model.StudentRecord `json:"data"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"totalPages"`
}

// List filters, sorts and paginates a snapshot of the collection.
func (s *GradeStore) List(q ListQuery) ListResult {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	students := s.All()

	// Apply filters
	name := strings.ToLower(strings.TrimSpace(q.Name))
	filtered := students[:0]
	for _, st := range students {
		if name != "" && !strings.Contains(strings.ToLower(st.Name), name) {
			continue
		}
		if q.GradeMin != nil && st.Grade < *q.GradeMin {
			continue
		}
		if q.GradeMax != nil && st.Grade > *q.GradeMax {
			continue
		}
		filtered = append(filtered, st)
	}

	// Apply sorting
	if less := lessFunc(filtered, q.SortBy); less != nil {
		if strings.EqualFold(q.SortOrder, "desc") {
			sort.SliceStable(filtered, func(i, j int) bool { return less(j, i) })
		} else {
			sort.SliceStable(filtered, less)
		}
	} else if strings.EqualFold(q.SortOrder, "desc") {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// Pagination
	total := len(filtered)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return ListResult{
		Data:       filtered[start:end],
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}
}

func lessFunc(students []model.StudentRecord, sortBy string) func(i, j int) bool {
	switch strings.ToLower(sortBy) {
	case "id":
		return func(i, j int) bool { return students[i].ID < students[j].ID }
	case "name":
		return func(i, j int) bool {
			return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
		}
	case "grade":
		return func(i, j int) bool { return students[i].Grade < students[j].Grade }
	default:
		return nil
	}
}
