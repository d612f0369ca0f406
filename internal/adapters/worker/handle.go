package worker

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"go.trai.ch/zerr"
)

// lineBuffer bounds the log line channel. Logs are best-effort; a slow
// consumer applies backpressure to the scanner, not to the worker.
const lineBuffer = 256

// Handle owns one worker OS process: its termination capabilities and its
// output streams. A Handle is exclusively owned by the Supervisor, lives for
// exactly one process, and is discarded on stop or restart.
type Handle struct {
	cmd   *exec.Cmd
	lines chan string
	done  chan struct{}

	mu       sync.Mutex
	exitCode int
}

// StartProcess spawns the worker in its own session and begins streaming its
// combined stdout/stderr as lines.
func StartProcess(argv []string) (*Handle, error) {
	if len(argv) == 0 {
		return nil, zerr.New("worker command is empty")
	}

	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // command comes from configuration
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open worker stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open worker stderr")
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to spawn worker"), "command", argv[0])
	}

	h := &Handle{
		cmd:      cmd,
		lines:    make(chan string, lineBuffer),
		done:     make(chan struct{}),
		exitCode: -1,
	}

	var scanners sync.WaitGroup
	for _, r := range []io.Reader{stdout, stderr} {
		scanners.Add(1)
		go func() {
			defer scanners.Done()
			scanner := bufio.NewScanner(r)
			for scanner.Scan() {
				h.lines <- scanner.Text()
			}
		}()
	}

	go func() {
		scanners.Wait()
		err := cmd.Wait()
		h.mu.Lock()
		if err == nil {
			h.exitCode = 0
		} else if exitErr, ok := err.(*exec.ExitError); ok { //nolint:errorlint // direct Wait result
			h.exitCode = exitErr.ExitCode()
		}
		h.mu.Unlock()
		close(h.lines)
		close(h.done)
	}()

	return h, nil
}

// PID returns the worker's process identifier.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Lines returns the stream of worker log lines. The channel is closed when
// the process exits. The sequence is per-process and is not restored across
// restarts.
func (h *Handle) Lines() <-chan string {
	return h.lines
}

// Exited reports whether the process has exited, and with which code.
func (h *Handle) Exited() (bool, int) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return true, h.exitCode
	default:
		return false, 0
	}
}

// Terminate sends the graceful termination signal.
func (h *Handle) Terminate() error {
	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return zerr.Wrap(err, "failed to signal worker")
	}
	return nil
}

// Kill forcibly terminates the process.
func (h *Handle) Kill() error {
	if err := h.cmd.Process.Kill(); err != nil {
		return zerr.Wrap(err, "failed to kill worker")
	}
	return nil
}

// Wait blocks until the process exits or the context is done. It returns the
// exit code when the process exited.
func (h *Handle) Wait(ctx context.Context) (int, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.exitCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
