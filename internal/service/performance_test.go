package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradetracker/internal/model"
)

// seqRand replays a fixed sequence of values, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func TestGeneratePerformance_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		grade float64
		rng   RandSource
	}{
		{"high grade pushed above 100", 100, &seqRand{vals: []float64{0, 0.999}}},
		{"zero grade pushed below 0", 0, &seqRand{vals: []float64{0.999, 0}}},
		{"random source", 55, rand.New(rand.NewPCG(1, 2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := GeneratePerformance(tt.grade, tt.rng)
			require.Len(t, points, 10)
			for i, p := range points {
				assert.Equal(t, i+1, p.Week)
				assert.GreaterOrEqual(t, p.Grade, 0.0)
				assert.LessOrEqual(t, p.Grade, 100.0)
			}
		})
	}
}

func TestGeneratePerformance_EndsNearCurrentGrade(t *testing.T) {
	// r=0.5 removes the weekly variation and starts 0 points from the grade
	points := GeneratePerformance(72, &seqRand{vals: []float64{0.5}})
	for _, p := range points {
		assert.InDelta(t, 72, p.Grade, 1e-9)
	}
}

func TestAnalyzePerformance(t *testing.T) {
	history := func(first, last float64) []PerformancePoint {
		return []PerformancePoint{{Week: 1, Grade: first}, {Week: 2, Grade: last}}
	}

	tests := []struct {
		name          string
		grade         float64
		history       []PerformancePoint
		wantTrend     string
		wantGoal      string
		wantTrendText string
	}{
		{"improving A", 95, history(80, 94), TrendImproving, "Outstanding performance! You are exceeding expectations.", "Excellent! You have shown consistent improvement in your grades."},
		{"declining C", 72, history(85, 70), TrendDeclining, "You are on track. Focus on areas that need improvement.", "Your grades have declined recently. Consider reviewing your study methods."},
		{"stable F", 40, history(41, 43), TrendStable, "You need to work harder to reach your academic goals.", "Your performance has been stable throughout the period."},
		{"no history", 85, nil, TrendStable, "Good work! You are meeting your academic goals.", "Your performance has been stable throughout the period."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnalyzePerformance(model.StudentRecord{ID: 1, Name: "Ann", Grade: tt.grade}, tt.history)
			assert.Equal(t, tt.wantTrend, r.Trend)
			assert.Equal(t, tt.wantGoal, r.GoalAnalysis)
			assert.Equal(t, tt.wantTrendText, r.TrendAnalysis)
			assert.NotEmpty(t, r.Recommendation)
		})
	}
}

func TestGradeStore_Performance(t *testing.T) {
	s, _ := newTestStore(t)
	st, err := s.Add(context.Background(), "Ann", 88)
	require.NoError(t, err)

	r, err := s.Performance(st.ID, DefaultRand)
	require.NoError(t, err)
	assert.Equal(t, st, r.Student)
	assert.Len(t, r.History, 10)

	_, err = s.Performance(st.ID+100, DefaultRand)
	assert.ErrorIs(t, err, ErrNotFound)
}
