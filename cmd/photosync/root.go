package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"photosync/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photosync",
	Short: "Copy VK photos to Yandex Disk",
	Long: `photosync copies the photos of a VK user to a Yandex Disk folder.

For each photo the largest size variant is chosen; the first N photos of the
album are uploaded by URL into a new folder and a JSON report of the uploaded
files is written locally.

Tokens are never obtained by photosync itself. Supply them with flags,
PHOTOSYNC_VK_TOKEN / PHOTOSYNC_DISK_TOKEN, a config file, a stored profile
('photosync auth login') or type them when prompted.`,
	Example: `  # Copy the 5 most recent wall photos of durov into "backup"
  photosync durov --folder backup

  # Same, explicitly, with 10 photos from the profile album
  photosync sync durov -f backup -n 10 --album profile`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || cmd.Name() == "version" || cmd.Name() == "help" {
			return
		}
		ui.PrintLogo()
	},
}

// Execute runs the command line and returns the process exit code
func Execute(args []string) int {
	rootCmd.SetArgs(defaultToSync(rootCmd, args))
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		return 1
	}
	return 0
}

// defaultToSync makes "photosync <user>" mean "photosync sync <user>".
// Global flags may come first, e.g. "photosync -q -c cfg.yaml durov".
func defaultToSync(root *cobra.Command, args []string) []string {
	i := skipPersistentFlags(root, args)
	if i < 0 || i == len(args) || args[i] == "help" {
		return args
	}
	if cmd, _, err := root.Find(args[i:]); err == nil && cmd != root {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, syncCmd.Name())
	return append(out, args[i:]...)
}

// skipPersistentFlags returns the index of the first argument that is not a
// root persistent flag or its value, or -1 when another flag comes first
func skipPersistentFlags(root *cobra.Command, args []string) int {
	flags := root.PersistentFlags()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			return i
		}
		if arg == "--" {
			return -1
		}

		var flag *pflag.Flag
		var inline bool
		if strings.HasPrefix(arg, "--") {
			name, _, hasValue := strings.Cut(arg[2:], "=")
			flag, inline = flags.Lookup(name), hasValue
		} else {
			flag, inline = flags.ShorthandLookup(arg[1:2]), len(arg) > 2
		}
		if flag == nil {
			return -1
		}
		if !inline && flag.NoOptDefVal == "" {
			i++ // the next argument is the value
		}
	}
	return len(args)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .photosync.yaml or ~/.config/photosync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`photosync {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
