package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
)

// maxLineBytes caps a single captured output line. Longer lines stop the
// scan; the process itself is unaffected.
const maxLineBytes = 1024 * 1024

// ShellRunner executes commands through `sh -c`, inheriting the parent's
// environment and working directory.
type ShellRunner struct {
	// UsePty runs the command under a pseudo-terminal so tools that
	// check isatty keep their interactive output (colors, progress
	// bars). Output is still captured line by line.
	UsePty bool
}

// NewShellRunner returns a runner for real child processes.
func NewShellRunner(usePty bool) *ShellRunner {
	return &ShellRunner{UsePty: usePty}
}

// Run starts the command, streams its combined stdout and stderr to sink
// line by line, and waits for it to finish. When ctx ends first, the
// child's whole process group is killed and ctx's error is returned.
func (r *ShellRunner) Run(ctx context.Context, command string, sink LineSink) (int, error) {
	cmd := exec.Command("sh", "-c", command)

	var out io.ReadCloser
	if r.UsePty {
		// pty.Start puts the child in its own session, which also makes
		// it a group leader.
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return 0, fmt.Errorf("start command: %w", err)
		}
		out = ptmx
	} else {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return 0, fmt.Errorf("open output pipe: %w", err)
		}
		cmd.Stderr = cmd.Stdout
		if err := cmd.Start(); err != nil {
			return 0, fmt.Errorf("start command: %w", err)
		}
		out = pipe
	}

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			killGroup(cmd)
		case <-watchDone:
		}
	}()

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		sink(line)
	}
	// Scan errors are not surfaced: a pty read returns EIO once the child
	// exits, and capture fidelity is line-buffered best effort anyway.
	// Drain whatever the scanner left behind so the child never blocks
	// on a full pipe before Wait.
	_, _ = io.Copy(io.Discard, out)

	waitErr := cmd.Wait()
	close(watchDone)
	if r.UsePty {
		_ = out.Close()
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, waitErr
}

// killGroup SIGKILLs the child's process group. Both launch modes make
// the child a group leader, so the negative pid reaches grandchildren
// spawned by the shell as well.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
