package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"gradetracker/internal/model"
)

// Serialize renders the collection as a JSON array of {id,name,grade}.
func Serialize(students []model.StudentRecord) (string, error) {
	if students == nil {
		students = []model.StudentRecord{}
	}

	data, err := json.Marshal(students)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Deserialize parses a value written by Serialize. It always returns a usable
// collection: absent or corrupt input yields an empty one, with the error
// describing what was wrong.
func Deserialize(data string) ([]model.StudentRecord, error) {
	empty := []model.StudentRecord{}

	if strings.TrimSpace(data) == "" {
		return empty, nil
	}

	var students []model.StudentRecord
	if err := json.Unmarshal([]byte(data), &students); err != nil {
		return empty, fmt.Errorf("corrupt student data: %w", err)
	}
	if students == nil {
		return empty, nil
	}

	seen := make(map[int64]struct{}, len(students))
	for _, st := range students {
		if _, dup := seen[st.ID]; dup {
			return empty, fmt.Errorf("corrupt student data: duplicate id %d", st.ID)
		}
		seen[st.ID] = struct{}{}

		if _, err := ValidateName(st.Name); err != nil {
			return empty, fmt.Errorf("corrupt student data: id %d: %w", st.ID, err)
		}
		if err := ValidateGrade(st.Grade); err != nil {
			return empty, fmt.Errorf("corrupt student data: id %d: %w", st.ID, err)
		}
	}

	return students, nil
}
