package history

import (
	"fmt"
	"time"
)

// Writer appends apply runs to the journal with pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain.
	MaxEntries int

	now func() time.Time
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		now:        time.Now,
	}
}

// WriteStart records a running entry and returns its ID for UpdateComplete.
func (w *Writer) WriteStart(command, file string, targets []int, markDevDone bool) (string, error) {
	now := w.now()
	id, err := GenerateID(now)
	if err != nil {
		return "", fmt.Errorf("generating history ID: %w", err)
	}

	entry := HistoryEntry{
		ID:          id,
		Timestamp:   now,
		Command:     command,
		File:        file,
		Targets:     targets,
		MarkDevDone: markDevDone,
		Status:      StatusRunning,
	}

	if err := w.append(entry); err != nil {
		return "", fmt.Errorf("writing start entry: %w", err)
	}
	return id, nil
}

// UpdateComplete sets the final status of a running entry.
// runErr is recorded for failed runs.
func (w *Writer) UpdateComplete(id, status string, changed int, runErr error, duration time.Duration) error {
	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history for update: %w", err)
	}

	if err := w.updateEntry(history, id, status, changed, runErr, duration); err != nil {
		return err
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving updated history: %w", err)
	}
	return nil
}

// append loads the journal, appends entry, prunes the oldest and saves.
func (w *Writer) append(entry HistoryEntry) error {
	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func (w *Writer) updateEntry(history *HistoryFile, id, status string, changed int, runErr error, duration time.Duration) error {
	for i := range history.Entries {
		if history.Entries[i].ID != id {
			continue
		}
		now := w.now()
		e := &history.Entries[i]
		e.Status = status
		e.Changed = changed
		e.Duration = duration.String()
		e.CompletedAt = &now
		if runErr != nil {
			e.Error = runErr.Error()
		}
		return nil
	}
	return fmt.Errorf("entry not found with ID: %s", id)
}
