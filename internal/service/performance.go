package service

import (
	"math"
	"math/rand/v2"

	"gradetracker/internal/model"
)

const (
	performanceWeeks = 10
	trendThreshold   = 5.0
)

const (
	TrendImproving = "Improving"
	TrendDeclining = "Declining"
	TrendStable    = "Stable"
)

// RandSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is safe for concurrent use.
var DefaultRand RandSource = globalRand{}

type PerformancePoint struct {
	Week  int     `json:"week"`
	Grade float64 `json:"grade"`
}

type PerformanceReport struct {
	Student        model.StudentRecord `json:"student"`
	History        []PerformancePoint  `json:"history"`
	Trend          string              `json:"trend"`
	Improvement    float64             `json:"improvement"`
	TrendAnalysis  string              `json:"trendAnalysis"`
	GoalAnalysis   string              `json:"goalAnalysis"`
	Recommendation string              `json:"recommendation"`
}

// GeneratePerformance simulates weekly grades drifting from a random starting
// point toward the current grade. It is decorative; the only guarantee is that
// every point lies in [0,100].
func GeneratePerformance(grade float64, rng RandSource) []PerformancePoint {
	base := math.Max(0, grade-(rng.Float64()*20-10))

	points := make([]PerformancePoint, performanceWeeks)
	for i := range points {
		progress := float64(i) / float64(performanceWeeks-1)
		variation := (rng.Float64() - 0.5) * 10
		g := base + (grade-base)*progress + variation
		points[i] = PerformancePoint{
			Week:  i + 1,
			Grade: math.Max(0, math.Min(100, g)),
		}
	}

	return points
}

// AnalyzePerformance derives the trend and advice texts shown next to a
// student's history.
func AnalyzePerformance(st model.StudentRecord, history []PerformancePoint) PerformanceReport {
	r := PerformanceReport{
		Student: st,
		History: history,
		Trend:   TrendStable,
	}

	if len(history) > 0 {
		first := history[0].Grade
		r.Improvement = history[len(history)-1].Grade - first
		r.Trend = trendOf(r.Improvement)
		r.TrendAnalysis = trendText(trendOf(st.Grade - first))
	} else {
		r.TrendAnalysis = trendText(TrendStable)
	}

	switch model.LetterGrade(st.Grade) {
	case model.LetterA:
		r.GoalAnalysis = "Outstanding performance! You are exceeding expectations."
		r.Recommendation = "Keep up the good work and maintain your current study habits."
	case model.LetterB:
		r.GoalAnalysis = "Good work! You are meeting your academic goals."
		r.Recommendation = "Excellent progress! Try to challenge yourself with advanced topics."
	case model.LetterC:
		r.GoalAnalysis = "You are on track. Focus on areas that need improvement."
		r.Recommendation = "Focus on weak areas, practice regularly, and consider forming study groups."
	default:
		r.GoalAnalysis = "You need to work harder to reach your academic goals."
		r.Recommendation = "Consider seeking additional help, reviewing study materials, and dedicating more time to challenging subjects."
	}

	return r
}

func trendOf(delta float64) string {
	switch {
	case delta > trendThreshold:
		return TrendImproving
	case delta < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func trendText(trend string) string {
	switch trend {
	case TrendImproving:
		return "Excellent! You have shown consistent improvement in your grades."
	case TrendDeclining:
		return "Your grades have declined recently. Consider reviewing your study methods."
	default:
		return "Your performance has been stable throughout the period."
	}
}

// Performance builds the report for one student.
func (s *GradeStore) Performance(id int64, rng RandSource) (PerformanceReport, error) {
	st, err := s.Get(id)
	if err != nil {
		return PerformanceReport{}, err
	}

	return AnalyzePerformance(st, GeneratePerformance(st.Grade, rng)), nil
}
