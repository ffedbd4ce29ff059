package convert

import (
	"context"
	"fmt"
	"os/exec"

	"terapias-go/internal/organizer"
)

// ExecEditor starts the word processor on a document and returns without
// waiting for it to exit.
type ExecEditor struct {
	executable string
	logger     organizer.Logger
}

var _ organizer.Editor = (*ExecEditor)(nil)

// NewExecEditor creates an ExecEditor. An empty executable falls back to the
// platform opener.
func NewExecEditor(executable string, logger organizer.Logger) *ExecEditor {
	return &ExecEditor{executable: executable, logger: logger}
}

// Open launches the editor on path. The editor outlives ctx.
func (e *ExecEditor) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := e.command(path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	e.logger.Info("editor started", "command", name, "doc", path, "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			e.logger.Debug("editor exited", "command", name, "error", err)
		}
	}()
	return nil
}

func (e *ExecEditor) command(path string) (string, []string) {
	if e.executable != "" {
		return e.executable, []string{path}
	}
	return openerCommand(path)
}
