package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/aicms-cli/internal/adapters/session"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

const DefaultEntry = "aicms/session"

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

type Store struct {
	entry string
	run   runFunc
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{entry: DefaultEntry, run: runPassCommand}
}

func (s *Store) Get(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	stdout, stderr, err := s.run(ctx, "", "show", s.entry)
	if err != nil {
		if isMissingEntry(stderr) {
			return domain.Session{}, nil
		}
		return domain.Session{}, formatError("get", s.entry, err, stderr)
	}

	return session.Decode([]byte(stdout))
}

func (s *Store) Set(ctx context.Context, value domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := session.Encode(value)
	if err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, string(data), "insert", "-m", "-f", s.entry)
	if err != nil {
		return formatError("put", s.entry, err, stderr)
	}

	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "-f", s.entry)
	if err != nil {
		if isMissingEntry(stderr) {
			return nil
		}
		return formatError("delete", s.entry, err, stderr)
	}

	return nil
}

func isMissingEntry(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
