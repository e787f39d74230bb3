package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/adapter/terminal"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

func newAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show what each alert code means",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), terminal.AlertTable(domain.AlertTable()))
			return nil
		},
	}
}
