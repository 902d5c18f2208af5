package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Starter launches long-running helper processes that outlive recroute.
type Starter interface {
	Start(ctx context.Context, binary string, args []string) (int, error)
}

// Executor runs a short command and returns its stdout.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// ProcessFinder reports whether a process with the given name is alive.
type ProcessFinder interface {
	Running(name string) (bool, error)
}

type detachedStarter struct{}

func (detachedStarter) Start(_ context.Context, binary string, args []string) (int, error) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", binary, err)
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return out, err
	}
	return out, nil
}

// commLimit is the kernel's TASK_COMM_LEN minus the terminator.
const commLimit = 15

// procFinder scans <root>/<pid>/comm for an exact process name.
type procFinder struct {
	root string
}

func (p procFinder) Running(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, errors.New("process name required")
	}
	if len(name) > commLimit {
		name = name[:commLimit]
	}
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(entry.Name()); err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.root, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == name {
			return true, nil
		}
	}
	return false, nil
}
