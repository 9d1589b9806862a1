package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ImportProcessing = "processing"
	ImportCompleted  = "completed"
	ImportError      = "error"

	maxImportErrors = 50
)

var ErrImportHeader = errors.New("csv header must contain Name and Grade columns")

type ImportProgress struct {
	FileName     string    `json:"fileName"`
	TotalRecords int       `json:"totalRecords"`
	Imported     int       `json:"imported"`
	Skipped      int       `json:"skipped"`
	Status       string    `json:"status"`
	Errors       []string  `json:"errors,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime,omitempty"`
}

func (p *ImportProgress) copy() *ImportProgress {
	c := *p
	c.Errors = append([]string(nil), p.Errors...)
	return &c
}

// ImportService loads CSV files into a GradeStore and remembers the outcome
// of each file by name.
type ImportService struct {
	store  *GradeStore
	logger *zap.Logger

	progressLock sync.RWMutex
	progress     map[string]*ImportProgress
}

func NewImportService(store *GradeStore, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:    store,
		logger:   logger,
		progress: make(map[string]*ImportProgress),
	}
}

// ImportCSV adds one student per data row of r. Rows that fail validation are
// skipped and reported; they never abort the import. The header row locates
// the Name and Grade columns, so exported files can be imported back.
func (s *ImportService) ImportCSV(ctx context.Context, fileName string, r io.Reader) (*ImportProgress, error) {
	p := &ImportProgress{
		FileName:  fileName,
		Status:    ImportProcessing,
		StartTime: time.Now(),
	}
	s.setProgress(p)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrImportHeader
		}
		return s.fail(p, err)
	}

	nameCol, gradeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			nameCol = i
		case "grade":
			gradeCol = i
		}
	}
	if nameCol < 0 || gradeCol < 0 {
		return s.fail(p, ErrImportHeader)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return s.fail(p, err)
		}

		// Records may span several lines when a quoted field holds a newline.
		var line int
		if parseErr != nil {
			line = parseErr.StartLine
		} else {
			line, _ = reader.FieldPos(0)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.fail(p, ctxErr)
		}

		s.update(p, func(p *ImportProgress) { p.TotalRecords++ })

		if err != nil {
			s.skip(p, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if nameCol >= len(record) || gradeCol >= len(record) {
			s.skip(p, fmt.Sprintf("line %d: missing columns", line))
			continue
		}

		grade, err := ParseGrade(record[gradeCol])
		if err == nil {
			_, err = s.store.Add(ctx, record[nameCol], grade)
		}
		if err != nil {
			s.skip(p, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		s.update(p, func(p *ImportProgress) { p.Imported++ })
	}

	s.update(p, func(p *ImportProgress) {
		p.Status = ImportCompleted
		p.EndTime = time.Now()
	})

	result := s.snapshot(p)
	s.logger.Info("import completed",
		zap.String("file", fileName),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Duration("took", time.Since(p.StartTime)))

	return result, nil
}

func (s *ImportService) setProgress(p *ImportProgress) {
	s.progressLock.Lock()
	defer s.progressLock.Unlock()
	s.progress[p.FileName] = p
}

func (s *ImportService) update(p *ImportProgress, fn func(*ImportProgress)) {
	s.progressLock.Lock()
	defer s.progressLock.Unlock()
	fn(p)
}

func (s *ImportService) skip(p *ImportProgress, reason string) {
	s.update(p, func(p *ImportProgress) {
		p.Skipped++
		if len(p.Errors) < maxImportErrors {
			p.Errors = append(p.Errors, reason)
		}
	})
}

func (s *ImportService) fail(p *ImportProgress, err error) (*ImportProgress, error) {
	s.update(p, func(p *ImportProgress) {
		p.Status = ImportError
		p.Errors = append(p.Errors, err.Error())
		p.EndTime = time.Now()
	})
	s.logger.Warn("import failed", zap.String("file", p.FileName), zap.Error(err))

	return s.snapshot(p), err
}

func (s *ImportService) snapshot(p *ImportProgress) *ImportProgress {
	s.progressLock.RLock()
	defer s.progressLock.RUnlock()
	return p.copy()
}

// GetFileProgress returns a copy of the progress for fileName, or nil.
func (s *ImportService) GetFileProgress(fileName string) *ImportProgress {
	s.progressLock.RLock()
	defer s.progressLock.RUnlock()

	if p, ok := s.progress[fileName]; ok {
		return p.copy()
	}
	return nil
}

func (s *ImportService) GetAllFileProgress() []*ImportProgress {
	s.progressLock.RLock()
	defer s.progressLock.RUnlock()

	result := make([]*ImportProgress, 0, len(s.progress))
	for _, p := range s.progress {
		result = append(result, p.copy())
	}

	return result
}
