package model

// Letter is a letter grade bucket.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Letters lists every bucket from best to worst.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD, LetterF}

// LetterGrade maps a numeric grade to its letter. Lower bounds are
// inclusive: 90 is an A, 89.99 is a B.
func LetterGrade(grade float64) Letter {
	switch {
	case grade >= 90:
		return LetterA
	case grade >= 80:
		return LetterB
	case grade >= 70:
		return LetterC
	case grade >= 60:
		return LetterD
	default:
		return LetterF
	}
}
