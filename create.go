package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create the instance described by the configuration",
		Long: `Create the instance described by the configuration.

The server id is recorded in the state file as soon as the provider
returns it, so a create that fails half way can still be cleaned up
with 'novakit destroy'. Running create with a server already recorded
does nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver()
			if err != nil {
				return err
			}
			if err := d.Create(cmd.Context()); err != nil {
				return err
			}
			state, err := d.Store.Load()
			if err != nil {
				return err
			}
			fmt.Println(state.ServerID)
			return nil
		},
	}
	return cmd
}
