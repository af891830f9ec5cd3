package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the authsvc CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authsvc",
		Short: "User authentication service",
		Long: `authsvc registers users, logs them in with signed access tokens,
resets passwords through a secret question and validates tokens for
other services. Configuration is read from the environment.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
