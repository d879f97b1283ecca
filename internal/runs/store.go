package runs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/calstone/remedy/internal/checks"
)

// Store persists fix-run artifacts on disk: rendered prompts, agent
// transcripts, raw check output, and the final report.
type Store struct {
	baseDir string // defaults to ~/.remedy/runs
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// DefaultStore returns a Store at ~/.remedy/runs, creating the directory if needed.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".remedy", "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{baseDir: dir}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// RunDir returns the directory for a fix run.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// iterationDir returns the directory for one loop iteration of a run.
func (s *Store) iterationDir(runID string, iteration int) string {
	return filepath.Join(s.RunDir(runID), fmt.Sprintf("iteration-%d", iteration))
}

// CheckOutputDir returns the directory for storing raw check output.
// Iteration 0 holds the baseline and final-verification phases.
func (s *Store) CheckOutputDir(runID string, phase string, iteration int, checkName string) string {
	if iteration > 0 {
		return filepath.Join(s.iterationDir(runID, iteration), "checks", checkName)
	}
	return filepath.Join(s.RunDir(runID), phase, checkName)
}

// SavePrompt writes the rendered agent prompt for a run.
func (s *Store) SavePrompt(runID string, prompt string) error {
	return WriteAtomic(filepath.Join(s.RunDir(runID), "prompt.md"), []byte(prompt))
}

// SaveTranscript writes the agent's captured output for one iteration.
func (s *Store) SaveTranscript(runID string, iteration int, output string) error {
	return WriteAtomic(filepath.Join(s.iterationDir(runID, iteration), "agent.log"), []byte(output))
}

// SaveCheckOutput writes stdout/stderr and the parsed result for a check run.
func (s *Store) SaveCheckOutput(runID string, phase string, iteration int, result *checks.Result) error {
	dir := s.CheckOutputDir(runID, phase, iteration, result.CheckName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir check output dir: %w", err)
	}
	if err := WriteAtomic(filepath.Join(dir, "stdout.txt"), []byte(result.Stdout)); err != nil {
		return err
	}
	if err := WriteAtomic(filepath.Join(dir, "stderr.txt"), []byte(result.Stderr)); err != nil {
		return err
	}
	return WriteJSON(filepath.Join(dir, "result.json"), result)
}

// SaveReport writes the final report JSON for a run.
func (s *Store) SaveReport(runID string, report interface{}) error {
	return WriteJSON(filepath.Join(s.RunDir(runID), "report.json"), report)
}

// GetPrompt reads the rendered prompt for a run.
func (s *Store) GetPrompt(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), "prompt.md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
