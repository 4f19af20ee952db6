package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"recruitscan-engine/internal/domain"
)

// Columns is the fixed output order. Downstream sheets key on it; never
// reorder.
var Columns = []string{
	"full_name",
	"current_company",
	"current_title",
	"linkedin_public_url",
	"location",
	"review",
	"bachelors_grad_year",
	"years_experience",
}

// CSVSink appends one row per accepted candidate and flushes immediately, so
// every row already written survives a crash or a forced stop.
type CSVSink struct {
	f    *os.File
	w    *csv.Writer
	path string
	rows int
}

// NewCSVSink creates the run's output file. The name is timestamp-derived so
// separate runs never collide.
func NewCSVSink(dir, pattern string, now time.Time) (*CSVSink, error) {
	if pattern == "" {
		pattern = "recruiter_results_{timestamp}.csv"
	}
	name := strings.ReplaceAll(pattern, "{timestamp}", now.Format("20060102_150405"))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVSink{f: f, w: w, path: path}, nil
}

func (s *CSVSink) Append(c domain.Candidate) error {
	rec := []string{
		c.FullName,
		c.Company,
		c.Title,
		c.ProfileURL,
		c.Location,
		c.Review,
		intCell(c.GradYear),
		intCell(c.YearsExperience),
	}
	if err := s.w.Write(rec); err != nil {
		return err
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	s.rows++
	return nil
}

// Absent numerics are empty cells, not sentinels.
func intCell(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (s *CSVSink) Rows() int    { return s.rows }
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
