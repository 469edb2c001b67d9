package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cedadev/xfc-client/internal/app"
	"github.com/cedadev/xfc-client/internal/commands"
	"github.com/cedadev/xfc-client/internal/config"
	"github.com/cedadev/xfc-client/internal/format"
	"github.com/cedadev/xfc-client/internal/utils"
	"github.com/spf13/cobra"
)

const version = "0.4.5"

var (
	configPath string
	emailFlag  string
	fullPath   bool
	fileMatch  string
	showInfo   bool
	sortTQ     bool
	sortHQ     bool
	listLimit  int
)

func main() {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	// Root command
	rootCmd := &cobra.Command{
		Use:     "xfc",
		Short:   "Transfer cache (XFC) command line tool",
		Long:    "Command line tool for interacting with the transfer cache (XFC). Each command queries the xfc_control server over its REST API and prints the result.",
		Version: version,
		// Command handlers render their own error lines
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the transfer cache for your login",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Init(ctr, emailFlag)
		}),
	}
	initCmd.Flags().StringVar(&emailFlag, "email", "", "Email address to register for the user")

	emailCmd := &cobra.Command{
		Use:   "email",
		Short: "View or update the registered email address",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Email(ctr, emailFlag)
		}),
	}
	emailCmd.Flags().StringVar(&emailFlag, "email", "", "New email address for the user")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Get the user info",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Info(ctr)
		}),
	}

	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Switch on / off email notifications of scheduled deletions (default is off)",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Notify(ctr)
		}),
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Get the path to your storage area in the transfer cache",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Path(ctr)
		}),
	}

	quotaCmd := &cobra.Command{
		Use:   "quota",
		Short: "Get the remaining free space in your quota",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Quota(ctr)
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the files in your storage area in the transfer cache",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.List(ctr, fileMatch, listOptions())
		}),
	}
	addListFlags(listCmd)
	listCmd.Flags().StringVarP(&fileMatch, "match", "m", "", "Pattern to match against (substring search)")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the files that are scheduled for deletion and their deletion time",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Schedule(ctr, listOptions())
		}),
	}
	addListFlags(scheduleCmd)

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict when the quota will be exceeded based on the current files",
		RunE: runCommand(func(ctr *app.Container) error {
			return commands.Predict(ctr, listOptions())
		}),
	}
	addListFlags(predictCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xfc version %s\n", version)
		},
	}

	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Write a commented default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.GenerateConfig(configPath)
		},
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(emailCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrReported) {
			format.Red.Fprintf(os.Stdout, "** ERROR ** - %v", err)
			fmt.Println()
		}
		os.Exit(1)
	}
}

// runCommand wraps a handler with config loading, username resolution
// and container construction
func runCommand(fn func(*app.Container) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.ResolveUsername(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctr, err := app.NewContainer(cfg)
		if err != nil {
			return err
		}

		return fn(ctr)
	}
}

// addListFlags attaches the flags shared by list / schedule / predict
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&fullPath, "full-path", "f", false, "Show full paths (default is relative paths)")
	cmd.Flags().BoolVarP(&showInfo, "info", "i", false, "Show file size, first seen date and temporal quota used")
	cmd.Flags().BoolVarP(&sortTQ, "sort-tq", "t", false, "Sort by temporal quota used, descending")
	cmd.Flags().BoolVarP(&sortHQ, "sort-size", "s", false, "Sort by file size, descending")
	cmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Limit the number of files output (0 = unlimited)")
}

func listOptions() format.ListOptions {
	return format.ListOptions{
		FullPath: fullPath,
		Info:     showInfo,
		SortTQ:   sortTQ,
		SortHQ:   sortHQ,
		Limit:    listLimit,
	}
}
