package tasks

import (
	"fmt"

	"github.com/julianstephens/focusplan/internal/cli"
)

type SessionDoneCmd struct {
	ID string `arg:"" help:"Focus session ID."`
}

func (c *SessionDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.CompleteFocusSession(c.ID); err != nil {
		return fmt.Errorf("failed to complete focus session: %w", err)
	}
	fmt.Printf("✓ Focus session %s completed\n", c.ID)
	return nil
}

type SubtaskDoneCmd struct {
	ID string `arg:"" help:"Subtask ID."`
}

func (c *SubtaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.CompleteSubtask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to complete subtask: %w", err)
	}
	fmt.Printf("✓ Subtask completed. %s is %d%% done\n", task.Title, task.CompletionPercent)
	return nil
}
