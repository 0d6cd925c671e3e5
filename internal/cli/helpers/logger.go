package helpers

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guidscan/guidscan/internal/logging"
)

// NewLogger builds the command logger from the persistent --log-level and
// --quiet flags. --quiet wins and suppresses everything below errors.
func NewLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		level = "error"
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	return logging.New(cfg)
}
