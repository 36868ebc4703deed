package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"photosync/pkg/auth"
	"photosync/pkg/backup"
	"photosync/pkg/config"
	"photosync/pkg/logger"
	"photosync/pkg/ui"
)

var (
	// Sync command flags
	folder      string
	count       int
	album       string
	reportPath  string
	policy      string
	timeout     time.Duration
	vkToken     string
	diskToken   string
	profileName string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <user>",
	Short: "Copy a user's photos to Yandex Disk",
	Long: `Copy the photos of a VK user to a new Yandex Disk folder.

<user> is a numeric VK ID, a screen name, or a profile link such as
https://vk.com/durov. The largest variant of each of the first --count photos
is uploaded as <likes>.jpg, or <likes>_<date>.jpg when two photos have the same
number of likes.

With --policy best-effort (default) failed uploads are reported and skipped;
with --policy fail-fast the first failure stops the run and no report is
written.`,
	Example: `  photosync sync durov --folder backup
  photosync sync 1 -f backup -n 10 --album profile --report out/photos.json
  photosync sync durov -f backup --profile work --policy fail-fast`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&folder, "folder", "f", "", "destination folder on Yandex Disk (prompted when empty)")
	syncCmd.Flags().IntVarP(&count, "count", "n", 5, "number of photos to upload")
	syncCmd.Flags().StringVar(&album, "album", "wall", "album to read: wall, profile, saved or a numeric album ID")
	syncCmd.Flags().StringVarP(&reportPath, "report", "r", "photos_info.json", "where to write the JSON report")
	syncCmd.Flags().StringVar(&policy, "policy", config.PolicyBestEffort, "upload failure policy: best-effort or fail-fast")
	syncCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout per request")
	syncCmd.Flags().StringVar(&vkToken, "vk-token", "", "VK access token")
	syncCmd.Flags().StringVar(&diskToken, "disk-token", "", "Yandex Disk OAuth token")
	syncCmd.Flags().StringVarP(&profileName, "profile", "p", "", "use tokens from a stored profile")
}

func runSync(cmd *cobra.Command, args []string) error {
	handle := strings.TrimSpace(args[0])

	cfg, err := config.Load(configFile, flagOverrides(cmd.Flags()))
	if err != nil {
		return err
	}
	if quiet && !cmd.Flags().Changed("log-level") && os.Getenv("PHOTOSYNC_LOG_LEVEL") == "" {
		cfg.Logging.Level = "error"
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	var p *prompter
	if interactive() {
		p = newTerminalPrompter()
	}
	if err := fillCredentials(cfg, profileName, credentialManager, p); err != nil {
		return err
	}
	if err := fillFolder(cfg, p); err != nil {
		return err
	}
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	if !quiet {
		ui.PrintInfo("User", handle)
		ui.PrintInfo("Folder", cfg.Upload.Folder)
		ui.PrintInfo("Album", cfg.VK.Album)
		ui.PrintInfo("Count", strconv.Itoa(cfg.Upload.Count))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progressOut io.Writer = os.Stderr
	if quiet {
		progressOut = io.Discard
	}
	progress := ui.NewUploadProgress(progressOut)

	log.WithField("handle", handle).Info("sync requested")
	runner := backup.NewFromConfig(cfg, progress, log)
	summary, err := runner.Run(ctx, backup.Request{Handle: handle, Folder: cfg.Upload.Folder})
	if err != nil {
		log.WithError(err).WithField("handle", handle).Error("sync failed")
		return err
	}

	if !quiet {
		printSummary(summary)
	}
	return nil
}

// flagOverrides collects the sync flags the user actually set, keyed the
// way config.MergeFlags expects
func flagOverrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if flags.Changed(name) {
			overrides[name] = value
		}
	}

	set("folder", folder)
	set("count", count)
	set("album", album)
	set("report", reportPath)
	set("policy", policy)
	set("timeout", timeout)
	set("vk-token", vkToken)
	set("disk-token", diskToken)
	if logLevel != "" {
		overrides["log-level"] = logLevel
	}
	return overrides
}

// credentialManager is replaced in tests
var credentialManager = func() (profileStore, error) {
	return auth.NewManager()
}

type profileStore interface {
	Retrieve(name string) (*auth.Profile, error)
}

// fillCredentials completes missing tokens from a stored profile, then from
// the prompt. A profile named with --profile must exist.
func fillCredentials(cfg *config.Config, profile string, open func() (profileStore, error), p *prompter) error {
	if profile != "" || cfg.VK.Token == "" || cfg.Disk.Token == "" {
		store, err := open()
		if err == nil {
			stored, err := store.Retrieve(profile)
			switch {
			case err == nil:
				if cfg.VK.Token == "" {
					cfg.VK.Token = stored.VKToken
				}
				if cfg.Disk.Token == "" {
					cfg.Disk.Token = stored.DiskToken
				}
			case profile != "":
				return err
			}
		} else if profile != "" {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
	}

	if p == nil {
		return nil
	}
	if cfg.VK.Token == "" {
		token, err := p.AskSecret("VK access token")
		if err != nil {
			return err
		}
		cfg.VK.Token = token
	}
	if cfg.Disk.Token == "" {
		token, err := p.AskSecret("Yandex Disk token")
		if err != nil {
			return err
		}
		cfg.Disk.Token = token
	}
	return nil
}

// fillFolder prompts for the destination folder when none is configured
func fillFolder(cfg *config.Config, p *prompter) error {
	if strings.TrimSpace(cfg.Upload.Folder) != "" || p == nil {
		return nil
	}
	name, err := p.Ask("Folder name on Yandex Disk")
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("destination folder is required")
	}
	cfg.Upload.Folder = name
	return nil
}

func printSummary(s *backup.Summary) {
	fmt.Fprintln(ui.Out)
	switch {
	case s.Folder.Created:
		ui.PrintInfo("Folder created", s.Folder.Path)
	case s.Folder.AlreadyExists:
		ui.PrintInfo("Folder exists", s.Folder.Path)
	case s.Folder.Message != "":
		ui.PrintWarning(fmt.Sprintf("Folder not created (status %d)", s.Folder.Status), s.Folder.Message)
	default:
		ui.PrintWarning(fmt.Sprintf("Folder not created (status %d)", s.Folder.Status))
	}
	ui.PrintInfo("Photos fetched", strconv.Itoa(s.Fetched))
	ui.PrintInfo("Photos selected", strconv.Itoa(s.Selected))
	ui.PrintInfo("Uploaded", strconv.Itoa(len(s.Records)))

	for _, f := range s.Failures {
		ui.PrintWarning("Upload failed", f.Error())
	}

	ui.PrintSuccess(fmt.Sprintf("Done. Report written to %s", s.ReportPath))
}
