package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/statuspond/statuspond/internal/version"
)

func versionCommand() *cobra.Command {
	var command = &cobra.Command{
		Use:          "version",
		Short:        "Display version information",
		SilenceUsage: true,
	}

	command.Run = func(cmd *cobra.Command, args []string) {
		clientVersion, clientRevision := version.GetReleaseInfo()
		fmt.Printf(`
Version:       %s
Git Revision:  %s
`, clientVersion, clientRevision)
	}

	return command
}
