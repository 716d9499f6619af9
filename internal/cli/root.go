package cli

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	awair "github.com/monorkin/go-awair"
)

var (
	verbose bool
	token   string
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "awair",
	Short: "Query Awair air quality monitors",
	Long: `A command line client for Awair air quality monitors.

Cloud commands talk to the hosted Awair API and need an access token,
supplied via --token or the AWAIR_TOKEN environment variable. Local
commands talk directly to devices on your network, either by address or
via mDNS discovery, and need no token at all.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix("awair")
	viper.AutomaticEnv()

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Awair access token (defaults to $AWAIR_TOKEN)")
}

// setupLogger configures the logger based on the verbose flag
func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	// Set as default logger
	slog.SetDefault(logger)
}

// accessToken resolves the token from the flag or the environment.
func accessToken() string {
	if token != "" {
		return token
	}
	return viper.GetString("token")
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// newCloudClient builds the cloud facade for commands that need one.
func newCloudClient() (*awair.Awair, error) {
	return awair.New(
		awair.WithAccessToken(accessToken()),
		awair.WithHTTPClient(httpClient()),
		awair.WithLogger(logger),
	)
}

// newLocalClient builds the local facade for the given device addresses.
func newLocalClient(addrs []string) (*awair.AwairLocal, error) {
	return awair.NewLocal(addrs,
		awair.WithHTTPClient(httpClient()),
		awair.WithLogger(logger),
	)
}
