package log

import (
	"fmt"
	"os"
	"path/filepath"
)

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation reverses a single journaled operation. Relocations move the
// file back; created directories are removed only when empty.
func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	switch op.Type {
	case OpRelocate:
		if op.DestPath == "" || op.SourcePath == "" {
			result.Error = fmt.Errorf("cannot undo relocation: path missing")
			return result
		}

		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo relocation: file %s not found", op.DestPath)
			return result
		}

		if _, err := os.Stat(op.SourcePath); err == nil {
			result.Error = fmt.Errorf("cannot undo relocation: original path %s already exists", op.SourcePath)
			return result
		}

		if dir := filepath.Dir(op.SourcePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				result.Error = fmt.Errorf("failed to recreate directory %s: %w", dir, err)
				return result
			}
		}

		if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to move %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}

		result.Success = true

	case OpCreateDir:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo directory creation: path missing")
			return result
		}

		info, err := os.Stat(op.DestPath)
		if os.IsNotExist(err) {
			// Directory already removed, consider it successful
			result.Success = true
			return result
		}

		if !info.IsDir() {
			result.Error = fmt.Errorf("path %s is not a directory", op.DestPath)
			return result
		}

		entries, err := os.ReadDir(op.DestPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to read directory %s: %w", op.DestPath, err)
			return result
		}
		if len(entries) > 0 {
			result.Error = fmt.Errorf("cannot remove directory %s: not empty", op.DestPath)
			return result
		}

		if err := os.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove directory %s: %w", op.DestPath, err)
			return result
		}

		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverses a session's successful operations in reverse order,
// so files move back before their created directories are removed.
func UndoSession(session *LogSession) (successful int, failed int, errors []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errors = append(errors, result.Error)
			}
		}
	}

	return successful, failed, errors
}

// FindLatestSession returns the most recent session and its log file path.
func FindLatestSession() (*LogSession, string, error) {
	dir, err := logDir()
	if err != nil {
		return nil, "", err
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("no log directory found")
	}

	sessions, err := ReadSessions(1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, "", fmt.Errorf("no sessions found")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		return nil, "", fmt.Errorf("no log files found")
	}

	// Glob output is name-sorted and names embed the timestamp.
	latestFile := files[len(files)-1]

	return sessions[0], latestFile, nil
}
