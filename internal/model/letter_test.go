package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		name  string
		grade float64
		want  Letter
	}{
		{"perfect score", 100, LetterA},
		{"A lower bound", 90, LetterA},
		{"just below A", 89.99, LetterB},
		{"B lower bound", 80, LetterB},
		{"just below B", 79.9, LetterC},
		{"C lower bound", 70, LetterC},
		{"D lower bound", 60, LetterD},
		{"just below D", 59.99, LetterF},
		{"zero", 0, LetterF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LetterGrade(tt.grade))
		})
	}
}
