package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"gradetracker/internal/model"
	"gradetracker/internal/storage"
)

const (
	DefaultStorageKey = "students"

	persistTimeout = 5 * time.Second
)

// EditRequest carries the fields to change on a record. Nil fields are left
// as they are.
type EditRequest struct {
	Name  *string  `json:"name,omitempty"`
	Grade *float64 `json:"grade,omitempty"`
}

// GradeStore owns the ordered collection of student records and writes the
// whole collection through to a key-value store after every mutation.
type GradeStore struct {
	kv     storage.KV
	key    string
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	students []model.StudentRecord
	lastID   int64
}

// NewGradeStore loads the collection stored under key. An absent, unreadable
// or corrupt value starts the store empty.
func NewGradeStore(ctx context.Context, kv storage.KV, key string, logger *zap.Logger) *GradeStore {
	if key == "" {
		key = DefaultStorageKey
	}

	s := &GradeStore{
		kv:       kv,
		key:      key,
		logger:   logger,
		now:      time.Now,
		students: []model.StudentRecord{},
	}
	s.load(ctx)

	return s
}

func (s *GradeStore) load(ctx context.Context) {
	data, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted students, starting empty", zap.Error(err))
		return
	}
	if !found {
		return
	}

	students, err := Deserialize(data)
	if err != nil {
		s.logger.Warn("discarding corrupt persisted students", zap.Error(err))
	}

	s.students = students
	for _, st := range students {
		if st.ID > s.lastID {
			s.lastID = st.ID
		}
	}
	s.logger.Info("loaded students", zap.Int("count", len(students)))
}

// persist must be called with mu held. Failures are logged and dropped. The
// write is not cut short when ctx is cancelled.
func (s *GradeStore) persist(ctx context.Context) {
	data, err := Serialize(s.students)
	if err != nil {
		s.logger.Warn("failed to serialize students", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist students", zap.Error(err))
	}
}

func (s *GradeStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *GradeStore) indexOf(id int64) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// ValidateName returns the trimmed name or an ErrValidation error.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: student name cannot be empty", ErrValidation)
	}
	return name, nil
}

// ValidateGrade rejects non-finite grades and grades outside [0,100].
func ValidateGrade(grade float64) error {
	if math.IsNaN(grade) || math.IsInf(grade, 0) || grade < 0 || grade > 100 {
		return fmt.Errorf("%w: grade must be between 0.0 and 100.0", ErrValidation)
	}
	return nil
}

// ParseGrade parses user input such as a form field into a validated grade.
func ParseGrade(input string) (float64, error) {
	grade, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: grade %q is not a number", ErrValidation, input)
	}
	if err := ValidateGrade(grade); err != nil {
		return 0, err
	}
	return grade, nil
}

func (s *GradeStore) Add(ctx context.Context, name string, grade float64) (model.StudentRecord, error) {
	name, err := ValidateName(name)
	if err != nil {
		return model.StudentRecord{}, err
	}
	if err := ValidateGrade(grade); err != nil {
		return model.StudentRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.StudentRecord{ID: s.nextID(), Name: name, Grade: grade}
	s.students = append(s.students, st)
	s.persist(ctx)

	s.logger.Debug("added student", zap.Int64("id", st.ID), zap.String("name", st.Name))
	return st, nil
}

func (s *GradeStore) Get(id int64) (model.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.StudentRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.students[i], nil
}

func (s *GradeStore) Edit(ctx context.Context, id int64, req EditRequest) (model.StudentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.StudentRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	updated := s.students[i]
	if req.Name != nil {
		name, err := ValidateName(*req.Name)
		if err != nil {
			return model.StudentRecord{}, err
		}
		updated.Name = name
	}
	if req.Grade != nil {
		if err := ValidateGrade(*req.Grade); err != nil {
			return model.StudentRecord{}, err
		}
		updated.Grade = *req.Grade
	}

	s.students[i] = updated
	s.persist(ctx)

	return updated, nil
}

func (s *GradeStore) Delete(ctx context.Context, id int64) (model.StudentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.StudentRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	removed := s.students[i]
	s.students = append(s.students[:i], s.students[i+1:]...)
	s.persist(ctx)

	return removed, nil
}

// Clear removes every record. It returns ErrNoData when the store is already
// empty.
func (s *GradeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.students) == 0 {
		return fmt.Errorf("%w: no students to clear", ErrNoData)
	}

	s.students = []model.StudentRecord{}
	s.persist(ctx)

	return nil
}

// All returns a copy of the collection in insertion order.
func (s *GradeStore) All() []model.StudentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.StudentRecord, len(s.students))
	copy(out, s.students)
	return out
}

func (s *GradeStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.students)
}
