package extract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/thep200/repo-profiler/internal/model"
)

// ErrUnknownStyleCode means the checker reported a category outside model.StyleCodes
var ErrUnknownStyleCode = errors.New("unknown style category")

// StyleChecker tallies style findings of one file by category
type StyleChecker interface {
	Tally(ctx context.Context, text string) (map[string]int, error)
}

// NopStyleChecker reports nothing, used when no checker is installed
type NopStyleChecker struct{}

func (NopStyleChecker) Tally(ctx context.Context, text string) (map[string]int, error) {
	return map[string]int{}, nil
}

// checkerMu keeps style checks strictly one at a time across the process
var checkerMu sync.Mutex

// CommandStyleChecker runs an external checker in statistics mode against a temp copy of the file
type CommandStyleChecker struct {
	Command string
	Args    []string
	TempDir string
}

// NewCommandStyleChecker wraps a pycodestyle compatible command
func NewCommandStyleChecker(command string) *CommandStyleChecker {
	return &CommandStyleChecker{
		Command: command,
		Args:    []string{"--statistics", "-qq"},
	}
}

// NewStyleChecker resolves command on PATH, falling back to NopStyleChecker
func NewStyleChecker(command string) (StyleChecker, error) {
	if command == "" {
		return NopStyleChecker{}, errors.New("no style checker configured")
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return NopStyleChecker{}, fmt.Errorf("style checker %q not found: %w", command, err)
	}
	return NewCommandStyleChecker(resolved), nil
}

func (c *CommandStyleChecker) Tally(ctx context.Context, text string) (map[string]int, error) {
	checkerMu.Lock()
	defer checkerMu.Unlock()

	out, err := c.run(ctx, text)
	if err != nil {
		return nil, err
	}
	return ParseStatistics(out)
}

// run owns the temp file for the whole invocation and removes it on every path
func (c *CommandStyleChecker) run(ctx context.Context, text string) ([]byte, error) {
	f, err := os.CreateTemp(c.TempDir, "style-*.py")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("cannot close temp file: %w", err)
	}

	args := append(append([]string{}, c.Args...), f.Name())
	cmd := exec.CommandContext(ctx, c.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	// The checker exits non-zero whenever it reports findings
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && stderr.Len() == 0) {
		return nil, fmt.Errorf("style checker failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// ParseStatistics reads "<count> <code> <description>" lines and sums counts by
// the two character category of code
func ParseStatistics(out []byte) (map[string]int, error) {
	tally := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed statistics line %q", scanner.Text())
		}

		count, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed count in %q: %w", scanner.Text(), err)
		}

		category := fields[1]
		if len(category) > 2 {
			category = category[:2]
		}
		if !model.IsStyleCode(category) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStyleCode, category)
		}
		tally[category] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tally, nil
}
