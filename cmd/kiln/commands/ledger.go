package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <identifier>",
		Short: "Show the recorded build outcome for a task identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.Identifier(args[0])

			rec, err := c.components.Ledger.Get(id)
			if err != nil {
				return zerr.Wrap(err, "failed to read ledger")
			}
			if rec == nil {
				return zerr.With(zerr.New("no build record found"), "identifier", args[0])
			}

			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return zerr.Wrap(err, "failed to marshal build record")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
