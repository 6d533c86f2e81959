/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allbin/flashwriter/internal/tui/styles"
	"github.com/allbin/flashwriter/serial"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata.

Examples:
  flashwriter info /dev/ttyUSB0
  flashwriter info /dev/ttyACM0

For USB adapters this shows the vendor and product IDs, serial number,
manufacturer and product strings read from sysfs, which helps telling
several attached boards apart.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		info, err := serial.GetPortInfo(args[0])
		if err != nil {
			exitWithError(fmt.Errorf("getting port info: %w", err))
		}

		fmt.Println(styles.TitleStyle.Render("Port Information: " + info.Path))
		fmt.Println()
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if !info.IsUSB() {
			return
		}

		fmt.Println("\n" + styles.InfoStyle.Render("USB Device Information:"))
		printField("Vendor ID", info.VendorID)
		printField("Product ID", info.ProductID)
		printField("Serial", info.SerialNumber)
		printField("Manufacturer", info.Manufacturer)
		printField("Product", info.Product)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printField(label, value string) {
	if value != "" {
		fmt.Printf("  %-13s %s\n", label+":", value)
	}
}
