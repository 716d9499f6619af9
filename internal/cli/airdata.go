package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	awair "github.com/monorkin/go-awair"
)

var (
	airDataLocal      string
	airDataDevice     string
	airDataKind       string
	airDataLimit      int
	airDataFrom       string
	airDataTo         string
	airDataDesc       bool
	airDataFahrenheit bool
)

// airDataSource is satisfied by both cloud and local devices.
type airDataSource interface {
	AirDataLatest(ctx context.Context, opts ...awair.QueryOption) (*awair.AirData, error)
	AirDataFiveMinute(ctx context.Context, opts ...awair.QueryOption) ([]awair.AirData, error)
	AirDataFifteenMinute(ctx context.Context, opts ...awair.QueryOption) ([]awair.AirData, error)
	AirDataRaw(ctx context.Context, opts ...awair.QueryOption) ([]awair.AirData, error)
}

// airDataCmd represents the air-data command
var airDataCmd = &cobra.Command{
	Use:   "air-data",
	Short: "Fetch air quality readings",
	Long: `Fetch air quality readings from one device, as JSON.

The device is selected with --device <uuid> (cloud) or --local <addr>
(local network). --kind picks the sampling: latest, 5-min-avg,
15-min-avg or raw.

Examples:
  awair air-data --device awair-r2_5709 --kind 15-min-avg --limit 10
  awair air-data --local 192.168.1.34`,
	Run: runAirData,
}

func runAirData(cmd *cobra.Command, args []string) {
	device, err := resolveDevice(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := queryOptions(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var data []awair.AirData
	switch airDataKind {
	case "latest":
		record, err := device.AirDataLatest(cmd.Context(), opts...)
		if err != nil {
			failAirData(err)
		}
		if record == nil {
			fmt.Println("No data.")
			return
		}
		data = []awair.AirData{*record}
	case "5-min-avg":
		data, err = device.AirDataFiveMinute(cmd.Context(), opts...)
	case "15-min-avg":
		data, err = device.AirDataFifteenMinute(cmd.Context(), opts...)
	case "raw":
		data, err = device.AirDataRaw(cmd.Context(), opts...)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown kind %q (expected latest, 5-min-avg, 15-min-avg or raw)\n", airDataKind)
		os.Exit(1)
	}
	if err != nil {
		failAirData(err)
	}

	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to format response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}

func failAirData(err error) {
	logger.Error("Failed to fetch air data", "error", err)
	fmt.Fprintf(os.Stderr, "Error: Failed to fetch air data: %v\n", err)
	os.Exit(1)
}

// resolveDevice picks the queried device from the --local or --device flag.
func resolveDevice(ctx context.Context) (airDataSource, error) {
	switch {
	case airDataLocal != "" && airDataDevice != "":
		return nil, fmt.Errorf("--local and --device are mutually exclusive")
	case airDataLocal != "":
		client, err := newLocalClient([]string{airDataLocal})
		if err != nil {
			return nil, err
		}

		devices, err := client.Devices(ctx)
		if err != nil {
			return nil, err
		}
		return devices[0], nil
	case airDataDevice != "":
		client, err := newCloudClient()
		if err != nil {
			return nil, err
		}

		user, err := client.User(ctx)
		if err != nil {
			return nil, err
		}

		devices, err := user.Devices(ctx)
		if err != nil {
			return nil, err
		}

		for _, device := range devices {
			if device.UUID == airDataDevice {
				return device, nil
			}
		}
		return nil, fmt.Errorf("no device with UUID %q", airDataDevice)
	default:
		return nil, fmt.Errorf("one of --device or --local is required")
	}
}

// queryOptions translates flags into query options, only forwarding flags
// that were set so the library's defaults apply.
func queryOptions(cmd *cobra.Command) ([]awair.QueryOption, error) {
	var opts []awair.QueryOption

	if cmd.Flags().Changed("fahrenheit") {
		opts = append(opts, awair.WithFahrenheit(airDataFahrenheit))
	}
	if cmd.Flags().Changed("desc") {
		opts = append(opts, awair.WithDesc(airDataDesc))
	}
	if cmd.Flags().Changed("limit") {
		opts = append(opts, awair.WithLimit(airDataLimit))
	}
	if airDataFrom != "" {
		from, err := time.Parse(time.RFC3339, airDataFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid --from (expected RFC3339): %w", err)
		}
		opts = append(opts, awair.WithFrom(from))
	}
	if airDataTo != "" {
		to, err := time.Parse(time.RFC3339, airDataTo)
		if err != nil {
			return nil, fmt.Errorf("invalid --to (expected RFC3339): %w", err)
		}
		opts = append(opts, awair.WithTo(to))
	}

	return opts, nil
}

func init() {
	rootCmd.AddCommand(airDataCmd)

	airDataCmd.Flags().StringVar(&airDataLocal, "local", "", "Local device address")
	airDataCmd.Flags().StringVar(&airDataDevice, "device", "", "Cloud device UUID")
	airDataCmd.Flags().StringVar(&airDataKind, "kind", "latest", "Sampling kind: latest, 5-min-avg, 15-min-avg or raw")
	airDataCmd.Flags().IntVar(&airDataLimit, "limit", 0, "Maximum number of datapoints")
	airDataCmd.Flags().StringVar(&airDataFrom, "from", "", "Earliest datapoint to return (RFC3339)")
	airDataCmd.Flags().StringVar(&airDataTo, "to", "", "Most recent datapoint to return (RFC3339)")
	airDataCmd.Flags().BoolVar(&airDataDesc, "desc", true, "Order datapoints descending")
	airDataCmd.Flags().BoolVar(&airDataFahrenheit, "fahrenheit", false, "Return temperatures in fahrenheit (cloud only)")
}
