/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	"github.com/allbin/flashwriter/internal/tui/styles"
	"github.com/allbin/flashwriter/serial"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports a board may be attached to",
	Long: `List the serial ports on this host.

Use this to find the --port to pass to flash. USB adapters, which is how a
board's debug UART is usually attached, can be shown on their own:

  flashwriter ports --filter usb --table

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := serial.ListPorts()
		if err != nil {
			exitWithError(fmt.Errorf("listing ports: %w", err))
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered, err := filterPorts(ports, filterType)
		if err != nil {
			exitWithError(err)
		}

		if len(filtered) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n", len(filtered))
			fmt.Println(renderPortTable(filtered))
			return
		}
		for _, info := range filtered {
			fmt.Println(info.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)

	portsCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	portsCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts resolves port info and keeps the ports matching filterType
func filterPorts(ports []string, filterType string) ([]*serial.PortInfo, error) {
	filterType = strings.ToLower(filterType)
	switch filterType {
	case "", "all", "usb", "standard", "arm":
	default:
		return nil, fmt.Errorf("unknown filter %q (want usb, standard, arm or all)", filterType)
	}

	var filtered []*serial.PortInfo
	for _, port := range ports {
		info, err := serial.GetPortInfo(port)
		if err != nil {
			continue
		}
		if matchesFilter(info, filterType) {
			filtered = append(filtered, info)
		}
	}
	return filtered, nil
}

func matchesFilter(info *serial.PortInfo, filterType string) bool {
	name := strings.ToLower(info.Name)
	switch filterType {
	case "usb":
		return strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm")
	case "standard":
		return strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac")
	case "arm":
		return strings.HasPrefix(name, "ttyama")
	default:
		return true
	}
}

const (
	columnKeyPort    = "port"
	columnKeyType    = "type"
	columnKeyUSBID   = "usbid"
	columnKeyProduct = "product"
	columnKeySerial  = "serial"
)

func renderPortTable(ports []*serial.PortInfo) string {
	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", 16),
		table.NewColumn(columnKeyType, "Type", 16),
		table.NewColumn(columnKeyUSBID, "VID:PID", 11),
		table.NewColumn(columnKeyProduct, "Product", 28),
		table.NewColumn(columnKeySerial, "Serial", 18),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, info := range ports {
		usbID, product := "", info.Description
		if info.IsUSB() {
			usbID = info.VendorID + ":" + info.ProductID
			if info.Product != "" {
				product = info.Product
			}
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:    info.Path,
			columnKeyType:    getPortType(info.Name),
			columnKeyUSBID:   usbID,
			columnKeyProduct: product,
			columnKeySerial:  info.SerialNumber,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(styles.Text).
			BorderForeground(styles.Surface2).
			Align(lipgloss.Left)).
		View()
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}

