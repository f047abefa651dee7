package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/soundscope/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive insights browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	if err := os.MkdirAll("./tmp", 0755); err == nil {
		if f, err := os.OpenFile("./tmp/soundscope-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			defer f.Close()
			r.logger.SetOutput(f)
		}
	}

	model := ui.NewModel(ctx, r.engine, cred, ownerID, cmd.String("range"), cmd.Int("limit"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	r.persistCredential(cred)
	return nil
}
