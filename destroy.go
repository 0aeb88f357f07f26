package main

import (
	"github.com/spf13/cobra"
)

func destroyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "destroy the instance recorded in the state file",
		Long: `Destroy the instance recorded in the state file.

With no server recorded this does nothing. A server that was already
deleted on the provider side only has its local record cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver()
			if err != nil {
				return err
			}
			return d.Destroy()
		},
	}
	return cmd
}
