package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

const defaultEditor = "vi"

// editTablesCommand implements [tea.ExecCommand] for the table
// edit-load-retry loop. It writes the current tables as YAML to a temp file,
// opens the user's editor, and loads the result. On error the user is
// prompted to re-edit; declining exits the program.
type editTablesCommand struct {
	config    *lang.Config
	ctxFunc   func() context.Context
	logger    log.Logger
	newConfig *lang.Config
	scope     *lang.Scope
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTablesCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTablesCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTablesCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// scope nil. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editTablesCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.config.WriteYAML(ctx, &buf, 2); err != nil {
		return fmt.Errorf("encode tables: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "incmedia-repl-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		loadErr := c.load(ctx, content)
		c.logger.TraceContext(
			ctx,
			"editor load attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			return nil
		}

		fmt.Fprintf(c.stderr, "\nTable error: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// load replaces the tables with content. The edited file is the complete
// table set, so it is not merged over the previous one.
func (c *editTablesCommand) load(ctx context.Context, content []byte) error {
	config, err := lang.LoadConfig(ctx, bytes.NewReader(content))
	if err != nil {
		return err
	}

	scope, err := config.Scope(lang.WithLogger(c.logger))
	if err != nil {
		return err
	}

	c.newConfig, c.scope = config, scope

	return nil
}

// runEditor launches $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
