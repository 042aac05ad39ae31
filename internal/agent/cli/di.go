package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/memory"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
	SaveCredentials   = config.Save
	SaveAnimalsToFile = memory.SaveToFile
)
