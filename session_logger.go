package peakflops

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// ResultRecord captures one report line for the session log
type ResultRecord struct {
	Name       string    `json:"name"`
	Precision  string    `json:"precision"`
	Threads    int       `json:"threads"`
	Iterations int64     `json:"iterations"`
	GFLOPS     float64   `json:"gflops,omitempty"`
	ElapsedNs  int64     `json:"elapsed_ns,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// sessionFile is the on-disk shape: system context plus the result records
type sessionFile struct {
	Timestamp   time.Time      `json:"timestamp"`
	GoVersion   string         `json:"go_version"`
	GOARCH      string         `json:"goarch"`
	NumCPU      int            `json:"num_cpu"`
	CPUFeatures string         `json:"cpu_features"`
	Results     []ResultRecord `json:"results"`
}

// SessionLogger writes session results to a JSON file as they arrive
type SessionLogger struct {
	mu      sync.Mutex
	path    string
	results []ResultRecord
}

// NewSessionLogger initializes the logger and writes the (empty) session
// file so a path problem surfaces before measurement starts
func NewSessionLogger(path string) (*SessionLogger, error) {
	l := &SessionLogger{path: path}
	if err := l.flush(); err != nil {
		return nil, fmt.Errorf("failed to create session log: %w", err)
	}
	return l, nil
}

// Record appends one result and rewrites the session file
func (l *SessionLogger) Record(r ResultRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	l.results = append(l.results, r)
	return l.flush()
}

// flush writes the full session file. Caller holds l.mu (except during New).
func (l *SessionLogger) flush() error {
	f := sessionFile{
		Timestamp:   time.Now(),
		GoVersion:   runtime.Version(),
		GOARCH:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		CPUFeatures: GetCPUInfo(),
		Results:     l.results,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0644)
}
