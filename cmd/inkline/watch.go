package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/inkline/internal/config"
	"github.com/dshills/inkline/internal/integration"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file>",
	Short: "Render a document and re-render on every save",
	Long:  `Render the document's diagrams, then keep watching the file and re-render whenever it changes. Interrupt to stop.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	session, buf, win, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer session.Shutdown()

	render := func() {
		if err := session.RenderBuffer(buf, win); err != nil {
			if errors.Is(err, integration.ErrNoIntegration) {
				color.Yellow("warning: no integration handles %q files", buf.Filetype())
				return
			}
			fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		}
	}
	render()

	watcher, err := config.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Watch(buf.Path(), func(string) {
		if err := buf.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			return
		}
		render()
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", buf.Path(), err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return nil
}
