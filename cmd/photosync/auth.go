package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"photosync/pkg/auth"
	"photosync/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored API tokens",
	Long: `Manage stored VK and Yandex Disk token pairs.

Profiles are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read only)

photosync does not obtain tokens; 'auth login' only saves tokens you already have.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store a token pair under a profile name",
	Example: `  # Interactive login into the default profile
  photosync auth login

  # Store a second profile
  photosync auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove a stored profile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles with masked tokens",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func profileArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return auth.DefaultProfile
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	name := profileArg(args)

	p := newTerminalPrompter()
	auth.ShowTokenGuide(os.Stdout)

	if existing, _ := manager.Retrieve(name); existing != nil {
		if !p.Confirm(fmt.Sprintf("Profile '%s' already exists. Replace it?", name)) {
			return nil
		}
	}

	profile, err := promptProfile(p, name)
	if err != nil {
		return err
	}

	if err := manager.Store(profile); err != nil {
		return err
	}

	ui.PrintSuccess("Profile saved: " + name)
	ui.PrintInfo("VK token", auth.MaskToken(profile.VKToken))
	ui.PrintInfo("Disk token", auth.MaskToken(profile.DiskToken))
	fmt.Printf("\nUse it with: photosync sync <user> --folder <name> --profile %s\n", name)
	return nil
}

// promptProfile reads both tokens without echo
func promptProfile(p *prompter, name string) (*auth.Profile, error) {
	vk, err := p.AskSecret("VK access token")
	if err != nil {
		return nil, err
	}
	disk, err := p.AskSecret("Yandex Disk token")
	if err != nil {
		return nil, err
	}
	if vk == "" || disk == "" {
		return nil, fmt.Errorf("both tokens are required")
	}
	return &auth.Profile{Name: name, VKToken: vk, DiskToken: disk}, nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	name := profileArg(args)
	if err := manager.Delete(name); err != nil {
		return err
	}
	ui.PrintSuccess("Profile removed: " + name)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	profiles, err := manager.List()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		ui.PrintInfo("No stored profiles", "use 'photosync auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored profiles")
	fmt.Println()
	for i, profile := range profiles {
		masked := profile.Masked()
		fmt.Printf("%d. %s\n", i+1, masked.Name)
		fmt.Printf("   VK token:      %s\n", masked.VKToken)
		fmt.Printf("   Disk token:    %s\n", masked.DiskToken)
		fmt.Printf("   Last modified: %s\n", masked.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
	return nil
}
