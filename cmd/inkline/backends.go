package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/inkline/internal/image"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Show the detected terminal graphics backend",
	Long:  `Inspect the terminal environment and report which graphics protocol inkline would use for inline images.`,
	Args:  cobra.NoArgs,
	RunE:  runBackends,
}

func runBackends(cmd *cobra.Command, args []string) error {
	backend, err := image.Detect(os.Stdout)
	if err != nil {
		color.Yellow("no graphics backend detected: TERM=%q TERM_PROGRAM=%q", os.Getenv("TERM"), os.Getenv("TERM_PROGRAM"))
		return err
	}
	fmt.Printf("backend: %s\n", backend.Name())
	return nil
}
