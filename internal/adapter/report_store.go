package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	m "gooze.dev/pkg/mutiny/internal/model"
	"gopkg.in/yaml.v3"
)

// LatestReport is the file name of the most recent report in a report dir.
const LatestReport = "latest.yaml"

// ErrNoReport is returned when a report directory holds no report yet.
var ErrNoReport = errors.New("no report found")

// ReportStore persists run reports.
type ReportStore interface {
	// NewRunID returns a fresh identifier for a run.
	NewRunID() string
	// SaveReport writes the report as <dir>/<run id>.yaml and updates
	// <dir>/latest.yaml. It returns the path of the run file.
	SaveReport(dir m.Path, report m.Report) (m.Path, error)
	// LoadReport reads a report file, or latest.yaml when path is a directory.
	LoadReport(path m.Path) (m.Report, error)
}

// YAMLReportStore stores reports as YAML files.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// NewRunID implements ReportStore.
func (s *YAMLReportStore) NewRunID() string {
	return uuid.NewString()
}

// SaveReport implements ReportStore.
func (s *YAMLReportStore) SaveReport(dir m.Path, report m.Report) (m.Path, error) {
	if report.RunID == "" {
		report.RunID = s.NewRunID()
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	content, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	runFile := filepath.Join(string(dir), report.RunID+".yaml")
	if err := os.WriteFile(runFile, content, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	if err := os.WriteFile(filepath.Join(string(dir), LatestReport), content, 0o600); err != nil {
		return "", fmt.Errorf("write latest report: %w", err)
	}

	return m.Path(runFile), nil
}

// LoadReport implements ReportStore.
func (s *YAMLReportStore) LoadReport(path m.Path) (m.Report, error) {
	file := string(path)

	if info, err := os.Stat(file); err == nil && info.IsDir() {
		file = filepath.Join(file, LatestReport)
	}

	// #nosec G304 - report path chosen by the user
	content, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return m.Report{}, fmt.Errorf("%w at %s", ErrNoReport, file)
	}

	if err != nil {
		return m.Report{}, err
	}

	var report m.Report
	if err := yaml.Unmarshal(content, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", file, err)
	}

	return report, nil
}
