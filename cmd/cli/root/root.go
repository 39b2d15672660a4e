package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the forumctl entry point. Subcommands are attached by main.
var RootCmd = New()

// New builds a bare root command carrying the global flags.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "forumctl",
		Short:         "Forum API command line client",
		Long:          "Command line interface for the forum API: sign up, log in, and manage forums and comments.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("json", false, "print raw JSON instead of tables")
	return cmd
}

// GetRoot returns the root command.
func GetRoot() *cobra.Command {
	return RootCmd
}

// JSONOutput reports whether --json was passed to cmd or any parent.
func JSONOutput(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("json")
	if f == nil {
		f = cmd.InheritedFlags().Lookup("json")
	}
	return f != nil && f.Value.String() == "true"
}
