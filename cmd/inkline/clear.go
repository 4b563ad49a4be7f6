package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/inkline/internal/image"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all inline images from the terminal",
	Long:  `Delete every inline image the terminal currently displays. Only protocols with a deletion escape (kitty) support this; iTerm2 images scroll away with the text that anchors them.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

// wiper is implemented by backends whose protocol can delete
// placements after the fact.
type wiper interface {
	ClearAll() error
}

func runClear(cmd *cobra.Command, args []string) error {
	backend, err := image.Detect(os.Stdout)
	if err != nil {
		return err
	}
	w, ok := backend.(wiper)
	if !ok {
		return fmt.Errorf("the %s protocol cannot delete displayed images", backend.Name())
	}
	return w.ClearAll()
}
