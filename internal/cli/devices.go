package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	awair "github.com/monorkin/go-awair"
)

var (
	localAddrs      []string
	discoverDevices bool
	discoverTimeout time.Duration
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:     "devices",
	Aliases: []string{"d", "device"},
	Short:   "List devices",
	Long: `List the cloud devices of the authenticated user.

With --local, list local devices by address instead; with --discover,
find local devices via mDNS first. Neither local mode needs a token.`,
	Run: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) {
	if discoverDevices || len(localAddrs) > 0 {
		runLocalDevices(cmd.Context())
		return
	}

	client, err := newCloudClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	user, err := client.User(cmd.Context())
	if err != nil {
		logger.Error("Failed to fetch user", "error", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to fetch user: %v\n", err)
		os.Exit(1)
	}

	devices, err := user.Devices(cmd.Context())
	if err != nil {
		logger.Error("Failed to fetch devices", "error", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to fetch devices: %v\n", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return
	}

	// Create tabwriter for aligned output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "UUID\tMODEL\tNAME\tROOM")
	fmt.Fprintln(w, "----\t-----\t----\t----")

	for _, device := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			device.UUID,
			device.Model(),
			orDash(device.Name),
			orDash(device.RoomType),
		)
	}
}

func runLocalDevices(ctx context.Context) {
	addrs := localAddrs

	if discoverDevices {
		logger.Debug("Discovering local devices", "timeout", discoverTimeout)

		discovered, err := awair.DiscoverLocalDevices(ctx, discoverTimeout)
		if err != nil {
			logger.Error("Device discovery failed", "error", err)
			fmt.Fprintf(os.Stderr, "Error: Device discovery failed: %v\n", err)
			os.Exit(1)
		}
		addrs = append(addrs, discovered...)
	}

	if len(addrs) == 0 {
		fmt.Println("No devices found.")
		return
	}

	client, err := newLocalClient(addrs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	devices, err := client.Devices(ctx)
	if err != nil {
		logger.Error("Failed to fetch local devices", "error", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to fetch local devices: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ADDRESS\tUUID\tMODEL\tFIRMWARE\tMAC")
	fmt.Fprintln(w, "-------\t----\t-----\t--------\t---")

	for _, device := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			device.DeviceAddr,
			device.UUID,
			device.Model(),
			device.FWVersion,
			orDash(device.MACAddress),
		)
	}
}

func orDash(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().StringSliceVar(&localAddrs, "local", nil, "Local device addresses (comma separated)")
	devicesCmd.Flags().BoolVar(&discoverDevices, "discover", false, "Discover local devices via mDNS")
	devicesCmd.Flags().DurationVar(&discoverTimeout, "discover-timeout", 10*time.Second, "How long to browse for local devices")
}
