// Package history records apply runs in a YAML journal under the state directory.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HistoryFileName is the name of the history file.
	HistoryFileName = "history.yaml"
	// BackupSuffix is the suffix for backup files when corruption is detected.
	BackupSuffix = ".backup"
)

// Status constants for history entries.
const (
	// StatusRunning indicates the run has started but not finished.
	StatusRunning = "running"
	// StatusCompleted indicates the feature list was written successfully.
	StatusCompleted = "completed"
	// StatusDryRun indicates the run computed changes without writing them.
	StatusDryRun = "dry-run"
	// StatusFailed indicates the run failed to load or store the feature list.
	StatusFailed = "failed"
)

// HistoryEntry represents one apply run.
type HistoryEntry struct {
	// ID is a unique identifier in adjective_noun_YYYYMMDD_HHMMSS format.
	ID string `yaml:"id"`
	// Timestamp is when the run started.
	Timestamp time.Time `yaml:"timestamp"`
	// Command is the featurectl command name.
	Command string `yaml:"command"`
	// File is the feature list the run targeted.
	File string `yaml:"file"`
	// Targets are the resolved feature indices, in apply order.
	Targets []int `yaml:"targets,flow"`
	// MarkDevDone records whether the dev group was advanced too.
	MarkDevDone bool `yaml:"mark_dev_done,omitempty"`
	// Changed is the number of flag groups that transitioned.
	Changed int `yaml:"changed"`
	// Status is running, completed, dry-run or failed.
	Status string `yaml:"status"`
	// CompletedAt is when the run finished (nil while running).
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	// Error holds the failure message for failed runs.
	Error string `yaml:"error,omitempty"`
	// Duration is the run duration in Go duration format.
	Duration string `yaml:"duration,omitempty"`
}

// HistoryFile represents the YAML file containing all history entries.
type HistoryFile struct {
	// Entries is an ordered list of runs (newest appended at end).
	Entries []HistoryEntry `yaml:"entries"`
}

// DefaultStateDir returns ~/.featurectl/state.
func DefaultStateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".featurectl", "state"), nil
}

// LoadHistory loads the history file from the given state directory.
// Returns empty history if file doesn't exist.
// Handles corrupted files by backing them up and creating a fresh history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	historyPath := filepath.Join(stateDir, HistoryFileName)

	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{Entries: []HistoryEntry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		if backupErr := backupCorruptedFile(historyPath); backupErr != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", backupErr)
		}
		return &HistoryFile{Entries: []HistoryEntry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []HistoryEntry{}
	}

	return &history, nil
}

// backupCorruptedFile renames a corrupted file with a .backup suffix.
func backupCorruptedFile(path string) error {
	if err := os.Rename(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("renaming corrupted file to backup: %w", err)
	}
	return nil
}

// SaveHistory saves the history file to the given state directory using atomic writes.
// Creates parent directories if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	historyPath := filepath.Join(stateDir, HistoryFileName)
	tmpPath := historyPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}

	if err := os.Rename(tmpPath, historyPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp history file: %w", err)
	}

	return nil
}

// ClearHistory removes all entries from the history file.
func ClearHistory(stateDir string) error {
	return SaveHistory(stateDir, &HistoryFile{Entries: []HistoryEntry{}})
}

// Last returns up to n of the most recent entries; n <= 0 returns all.
func (h *HistoryFile) Last(n int) []HistoryEntry {
	if n <= 0 || n >= len(h.Entries) {
		return h.Entries
	}
	return h.Entries[len(h.Entries)-n:]
}
