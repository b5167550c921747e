package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`  // RFC3339 with microseconds.
	Run       string `json:"run"` // Shared by all entries of one process.
	Operation string `json:"op"`

	Files      []string `json:"files,omitempty"`
	Spans      int      `json:"spans,omitempty"`
	Digest     string   `json:"digest,omitempty"`     // For encrypt/rekey.
	Iterations uint32   `json:"iterations,omitempty"` // For encrypt/rekey.
	Error      string   `json:"error,omitempty"`
}

var (
	mu      sync.Mutex
	logPath string
	runID   = uuid.New().String()
)

// Enable directs entries to path. An empty path disables logging.
func Enable(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
}

// Disable stops logging.
func Disable() {
	Enable("")
}

// LogPath returns the path to the audit log file.
// Returns empty string if logging is disabled.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// RunID returns the id stamped on entries written by this process.
func RunID() string {
	return runID
}

// NewEntry returns an entry for op with the run id filled in.
func NewEntry(op string) Entry {
	return Entry{Run: runID, Operation: op}
}

// Log appends an entry to the audit log.
// If logging fails, it does not return an error.
// Operations should not fail just because audit logging failed.
func Log(entry Entry) {
	mu.Lock()
	defer mu.Unlock()

	if logPath == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.Run == "" {
		entry.Run = runID
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if logging is disabled or the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	path := LogPath()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
