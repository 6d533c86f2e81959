/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/allbin/flashwriter/internal/tui/styles"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flashwriter",
	Short: "Flash firmware to eMMC through a board's serial download mode",
	Long: `flashwriter provisions and recovers boards over their debug UART.

It waits for the boot ROM's download prompt, sends a flash writer loader,
switches the line to 921600 baud and writes bl2, fip and overlay images to
their fixed eMMC sectors.

Settings are read from flashwriter.yaml in ., ./configs or ~/.flashwriter,
from FLASHWRITER_* environment variables, and from flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: search for flashwriter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
	os.Exit(1)
}
