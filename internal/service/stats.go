package service

import (
	"math"

	"gradetracker/internal/model"
)

// Stats summarises the grades in the store. Values keep full precision; use
// Rounded for display.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Range   float64 `json:"range"`
}

// Rounded returns a copy with every value rounded to two decimal places.
func (st Stats) Rounded() Stats {
	return Stats{
		Count:   st.Count,
		Average: round2(st.Average),
		Max:     round2(st.Max),
		Min:     round2(st.Min),
		Range:   round2(st.Range),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Distribution counts records per letter grade. Every letter is present.
type Distribution map[model.Letter]int

func (s *GradeStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeStats(s.students)
}

func computeStats(students []model.StudentRecord) Stats {
	if len(students) == 0 {
		return Stats{}
	}

	st := Stats{
		Count: len(students),
		Max:   students[0].Grade,
		Min:   students[0].Grade,
	}

	var sum float64
	for _, s := range students {
		sum += s.Grade
		st.Max = math.Max(st.Max, s.Grade)
		st.Min = math.Min(st.Min, s.Grade)
	}
	st.Average = sum / float64(len(students))
	st.Range = st.Max - st.Min

	return st
}

func (s *GradeStore) Distribution() Distribution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeDistribution(s.students)
}

func computeDistribution(students []model.StudentRecord) Distribution {
	d := make(Distribution, len(model.Letters))
	for _, l := range model.Letters {
		d[l] = 0
	}
	for _, st := range students {
		d[model.LetterGrade(st.Grade)]++
	}

	return d
}

// Summary pairs Stats and Distribution taken from the same snapshot.
type Summary struct {
	Stats        Stats
	Distribution Distribution
}

func (s *GradeStore) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Summary{
		Stats:        computeStats(s.students),
		Distribution: computeDistribution(s.students),
	}
}
