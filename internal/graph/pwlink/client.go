package pwlink

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"recroute/internal/graph"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps pw-link interactions.
type Client struct {
	binary string
	exec   Executor
}

var _ graph.Provider = (*Client)(nil)

// New constructs a pw-link client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("pw-link binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListLinks returns every live link reported by the server.
func (c *Client) ListLinks(ctx context.Context) ([]graph.Link, error) {
	var lines []string
	if err := c.exec.Run(ctx, c.binary, []string{"--links", "--id"}, func(line string) {
		lines = append(lines, line)
	}); err != nil {
		return nil, fmt.Errorf("%w: pw-link --links: %w", graph.ErrGraphUnavailable, err)
	}
	links, err := parseLinks(lines)
	if err != nil {
		return nil, fmt.Errorf("parse pw-link output: %w", err)
	}
	return links, nil
}

// ListLinkGroups returns the current links clustered per endpoint side.
func (c *Client) ListLinkGroups(ctx context.Context) ([]graph.LinkGroup, error) {
	links, err := c.ListLinks(ctx)
	if err != nil {
		return nil, err
	}
	return graph.GroupLinks(links), nil
}

// Disconnect removes one link, by id when the server reported one.
func (c *Client) Disconnect(ctx context.Context, link graph.Link) error {
	args := []string{"--disconnect"}
	if link.ID != 0 {
		args = append(args, strconv.FormatUint(uint64(link.ID), 10))
	} else {
		if !link.Output.Valid() || !link.Input.Valid() {
			return fmt.Errorf("disconnect %s: incomplete link address", link)
		}
		args = append(args, link.Output.Address(), link.Input.Address())
	}
	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return fmt.Errorf("disconnect %s: %w", link, classify(err))
	}
	return nil
}

// Connect links an output port to an input port. Connecting a pair that is
// already linked succeeds.
func (c *Client) Connect(ctx context.Context, output, input graph.Port) error {
	if !output.Valid() || !input.Valid() {
		return fmt.Errorf("connect %s -> %s: incomplete port address", output.Address(), input.Address())
	}
	err := c.exec.Run(ctx, c.binary, []string{output.Address(), input.Address()}, nil)
	if err == nil || alreadyLinked(err) {
		return nil
	}
	return fmt.Errorf("connect %s -> %s: %w", output.Address(), input.Address(), classify(err))
}

func alreadyLinked(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "file exists")
}

func classify(err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %w", graph.ErrGraphUnavailable, err)
	}
	return err
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	wg.Add(1)
	go func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
		scanErr = scanner.Err()
	}(stdout)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
