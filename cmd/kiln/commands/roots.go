package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (c *CLI) newRootsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List the configured target roots",
		Run: func(cmd *cobra.Command, _ []string) {
			roots := c.components.App.Roots()

			names := make([]string, 0, len(roots))
			for name := range roots {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, roots[name])
			}
		},
	}
}
