package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"sbaclean/pkg/contracts/domain"
)

var summaryValidator = validator.New()

// RunManifest accumulates per-file results into a run summary
type RunManifest struct {
	mu      sync.RWMutex
	summary domain.RunSummary
}

// NewRunManifest starts a manifest for a run over inputDir with a fresh run ID
func NewRunManifest(inputDir string) *RunManifest {
	return &RunManifest{
		summary: domain.RunSummary{
			RunID:     uuid.NewString(),
			InputDir:  inputDir,
			StartTime: time.Now(),
			Files:     []domain.FileResult{},
		},
	}
}

// RunID returns the identifier of the run
func (m *RunManifest) RunID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary.RunID
}

// SetTotal records how many workbooks were discovered
func (m *RunManifest) SetTotal(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary.TotalFiles = n
}

// RecordFile appends the result of one workbook
func (m *RunManifest) RecordFile(result domain.FileResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.summary.Files = append(m.summary.Files, result)
	if result.Succeeded() {
		m.summary.Succeeded++
	} else {
		m.summary.Failed++
	}
}

// Finish stamps the end time and returns the summary
func (m *RunManifest) Finish() *domain.RunSummary {
	m.mu.Lock()
	m.summary.EndTime = time.Now()
	m.mu.Unlock()
	return m.Summary()
}

// Summary returns a copy of the current summary
func (m *RunManifest) Summary() *domain.RunSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.summary
	s.Files = append([]domain.FileResult(nil), m.summary.Files...)
	return &s
}

// SaveSummary writes summary as indented JSON to path, creating parent directories
func SaveSummary(path string, summary *domain.RunSummary) error {
	if err := summaryValidator.Struct(summary); err != nil {
		return fmt.Errorf("invalid summary: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// LoadSummary reads a summary written by SaveSummary
func LoadSummary(path string) (*domain.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if err := summaryValidator.Struct(&summary); err != nil {
		return nil, fmt.Errorf("invalid summary in %s: %w", path, err)
	}
	return &summary, nil
}
