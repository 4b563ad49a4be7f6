package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/inkline/internal/app"
	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/host"
	"github.com/dshills/inkline/internal/image"
	"github.com/dshills/inkline/internal/integration"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file>",
	Short: "Render a document's diagrams once",
	Long:  `Discover the diagram blocks in a document, render each through its external tool, and paint the results inline.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for asynchronous renders")
}

func runRender(cmd *cobra.Command, args []string) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}

	session, buf, win, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer session.Shutdown()

	if err := session.RenderBuffer(buf, win); err != nil {
		if errors.Is(err, integration.ErrNoIntegration) {
			color.Yellow("warning: no integration handles %q files", buf.Filetype())
			return nil
		}
		return err
	}

	return awaitJobs(session, timeout)
}

// openSession loads the document and builds a session bound to the
// current terminal.
func openSession(cmd *cobra.Command, path string) (*app.Session, *buffer.Buffer, host.Window, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, host.Window{}, err
	}

	backend, err := image.Detect(os.Stdout)
	if err != nil {
		color.Yellow("warning: %v", err)
		return nil, nil, host.Window{}, err
	}

	buf, err := buffer.Load(path)
	if err != nil {
		return nil, nil, host.Window{}, err
	}

	logger := app.NewLogger(app.LoggerConfig{Output: os.Stderr})
	session, err := app.New(app.Options{
		Config:  cfg,
		Backend: backend,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, host.Window{}, err
	}

	return session, buf, terminalWindow(), nil
}

// terminalWindow sizes the display window from the attached
// terminal, with a sane fallback when stdout is not a tty.
func terminalWindow() host.Window {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width, height = 80, 24
	}
	return host.Window{ID: 1, Width: width, Height: height}
}

// awaitJobs blocks until no asynchronous render is outstanding.
func awaitJobs(session *app.Session, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for session.PendingJobs() > 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %v with %d renders outstanding", timeout, session.PendingJobs())
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}
