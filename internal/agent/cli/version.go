package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd — версия и дата сборки клиента livestock (задаются через -ldflags).
//
//	livestock version
func NewVersionCmd(buildVersion, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Версия клиента livestock market",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "livestock market client\nversion=%s\nbuild_date=%s\n", buildVersion, buildDate)
		},
	}
}
