package builddocs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ExecRunner abstracts command execution for testability.
type ExecRunner interface {
	// LookPath checks if a binary exists in PATH.
	LookPath(name string) (string, error)

	// Run executes a command and returns its captured output.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// RealRunner implements ExecRunner using os/exec.
type RealRunner struct {
	// Timeout for each command execution. Zero means no limit.
	Timeout time.Duration
}

// NewRealRunner creates a runner with the given timeout.
func NewRealRunner(timeout time.Duration) *RealRunner {
	return &RealRunner{Timeout: timeout}
}

// LookPath checks if a binary exists in PATH.
func (r *RealRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes a command and returns its output.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// MockRunner implements ExecRunner for testing. Each Run call is recorded;
// OnRun, when set, is invoked before the configured result is returned.
type MockRunner struct {
	mu       sync.Mutex
	lookPath map[string]string
	commands map[string]mockResult
	calls    [][]string

	OnRun func(name string, args []string)
}

type mockResult struct {
	stdout string
	stderr string
	err    error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		lookPath: make(map[string]string),
		commands: make(map[string]mockResult),
	}
}

// SetLookPath configures the mock to return a path for the given name.
func (m *MockRunner) SetLookPath(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookPath[name] = path
}

// SetCommand configures the mock result for a command name.
func (m *MockRunner) SetCommand(name string, stdout, stderr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[name] = mockResult{stdout: stdout, stderr: stderr, err: err}
}

// Calls returns every recorded invocation as name followed by its args.
func (m *MockRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

// LookPath implements ExecRunner.
func (m *MockRunner) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if path, ok := m.lookPath[name]; ok {
		return path, nil
	}
	return "", exec.ErrNotFound
}

// Run implements ExecRunner.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{name}, args...))
	result, ok := m.commands[name]
	onRun := m.OnRun
	m.mu.Unlock()

	if onRun != nil {
		onRun(name, args)
	}
	if !ok {
		return "", "", exec.ErrNotFound
	}
	return result.stdout, result.stderr, result.err
}
