package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Upload.Count != 5 {
		t.Errorf("Expected default count to be 5, got %d", config.Upload.Count)
	}

	if config.VK.Album != "wall" {
		t.Errorf("Expected default album to be wall, got %s", config.VK.Album)
	}

	if config.Upload.Policy != PolicyBestEffort {
		t.Errorf("Expected default policy to be %s, got %s", PolicyBestEffort, config.Upload.Policy)
	}

	if config.Report.Path != "photos_info.json" {
		t.Errorf("Expected default report path to be photos_info.json, got %s", config.Report.Path)
	}

	if config.HTTP.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout to be 30s, got %v", config.HTTP.Timeout)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PHOTOSYNC_VK_TOKEN", "vk-env-token")
	t.Setenv("PHOTOSYNC_DISK_TOKEN", "OAuth disk-env-token")
	t.Setenv("PHOTOSYNC_COUNT", "12")
	t.Setenv("PHOTOSYNC_FOLDER", "backup")
	t.Setenv("PHOTOSYNC_POLICY", PolicyFailFast)
	t.Setenv("PHOTOSYNC_HTTP_TIMEOUT", "5s")
	t.Setenv("PHOTOSYNC_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.VK.Token != "vk-env-token" {
		t.Errorf("Expected vk token to be vk-env-token, got %s", config.VK.Token)
	}
	if config.Disk.Token != "OAuth disk-env-token" {
		t.Errorf("Expected disk token to be set, got %s", config.Disk.Token)
	}
	if config.Upload.Count != 12 {
		t.Errorf("Expected count to be 12, got %d", config.Upload.Count)
	}
	if config.Upload.Folder != "backup" {
		t.Errorf("Expected folder to be backup, got %s", config.Upload.Folder)
	}
	if !config.FailFast() {
		t.Error("Expected fail-fast policy")
	}
	if config.HTTP.Timeout != 5*time.Second {
		t.Errorf("Expected timeout to be 5s, got %v", config.HTTP.Timeout)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("PHOTOSYNC_COUNT", "many")
	t.Setenv("PHOTOSYNC_HTTP_TIMEOUT", "soon")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err == nil {
		t.Fatal("Expected an error for invalid environment values")
	}
	if !strings.Contains(err.Error(), "PHOTOSYNC_COUNT") || !strings.Contains(err.Error(), "PHOTOSYNC_HTTP_TIMEOUT") {
		t.Errorf("Expected both variables to be reported, got %v", err)
	}
	if config.Upload.Count != 5 {
		t.Errorf("Expected count to keep its default, got %d", config.Upload.Count)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		wantError bool
	}{
		{name: "defaults", modify: func(c *Config) {}, wantError: false},
		{name: "zero count", modify: func(c *Config) { c.Upload.Count = 0 }, wantError: true},
		{name: "unknown policy", modify: func(c *Config) { c.Upload.Policy = "sometimes" }, wantError: true},
		{name: "fail-fast policy", modify: func(c *Config) { c.Upload.Policy = PolicyFailFast }, wantError: false},
		{name: "empty report path", modify: func(c *Config) { c.Report.Path = "" }, wantError: true},
		{name: "zero timeout", modify: func(c *Config) { c.HTTP.Timeout = 0 }, wantError: true},
		{name: "invalid log level", modify: func(c *Config) { c.Logging.Level = "chatty" }, wantError: true},
		{name: "missing api version", modify: func(c *Config) { c.VK.APIVersion = "" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	config := DefaultConfig()
	err := config.ValidateRun()
	if err == nil {
		t.Fatal("Expected missing tokens and folder to fail")
	}
	for _, want := range []string{"vk token", "disk token", "folder"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in error, got %v", want, err)
		}
	}

	config.VK.Token = "vk"
	config.Disk.Token = "disk"
	config.Upload.Folder = "photos"
	if err := config.ValidateRun(); err != nil {
		t.Errorf("Expected complete config to pass, got %v", err)
	}
}

func TestMergeFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeFlags(map[string]interface{}{
		"vk-token":   "flag-vk",
		"disk-token": "flag-disk",
		"count":      3,
		"folder":     "flag-folder",
		"policy":     PolicyFailFast,
		"report":     "/tmp/out.json",
		"timeout":    10 * time.Second,
		"album":      "profile",
		"log-level":  "error",
	})

	if config.VK.Token != "flag-vk" || config.Disk.Token != "flag-disk" {
		t.Errorf("Expected tokens from flags, got %q %q", config.VK.Token, config.Disk.Token)
	}
	if config.Upload.Count != 3 {
		t.Errorf("Expected count to be 3, got %d", config.Upload.Count)
	}
	if config.Upload.Folder != "flag-folder" {
		t.Errorf("Expected folder to be flag-folder, got %s", config.Upload.Folder)
	}
	if config.Report.Path != "/tmp/out.json" {
		t.Errorf("Expected report path from flag, got %s", config.Report.Path)
	}
	if config.HTTP.Timeout != 10*time.Second {
		t.Errorf("Expected timeout to be 10s, got %v", config.HTTP.Timeout)
	}
	if config.VK.Album != "profile" {
		t.Errorf("Expected album to be profile, got %s", config.VK.Album)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}

	// zero values leave existing settings alone
	config.MergeFlags(map[string]interface{}{"count": 0, "folder": ""})
	if config.Upload.Count != 3 || config.Upload.Folder != "flag-folder" {
		t.Errorf("Expected zero-valued flags to be ignored")
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "photosync.yaml")

	config := DefaultConfig()
	config.VK.Token = "saved-vk"
	config.Upload.Count = 8
	config.HTTP.Timeout = 45 * time.Second

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat saved config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected config file mode 0600, got %v", info.Mode().Perm())
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.VK.Token != "saved-vk" {
		t.Errorf("Expected loaded vk token to be saved-vk, got %s", loaded.VK.Token)
	}
	if loaded.Upload.Count != 8 {
		t.Errorf("Expected loaded count to be 8, got %d", loaded.Upload.Count)
	}
	if loaded.HTTP.Timeout != 45*time.Second {
		t.Errorf("Expected loaded timeout to be 45s, got %v", loaded.HTTP.Timeout)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
vk:
  token: file-token
  album: profile
upload:
  count: 2
  policy: fail-fast
http:
  timeout: 1m
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.VK.Token != "file-token" || config.VK.Album != "profile" {
		t.Errorf("Unexpected vk section: %+v", config.VK)
	}
	if config.VK.APIVersion != "5.199" {
		t.Errorf("Expected unset fields to keep defaults, got api version %q", config.VK.APIVersion)
	}
	if config.Upload.Count != 2 || !config.FailFast() {
		t.Errorf("Unexpected upload section: %+v", config.Upload)
	}
	if config.HTTP.Timeout != time.Minute {
		t.Errorf("Expected timeout to be 1m, got %v", config.HTTP.Timeout)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for an explicit missing file")
	}
}

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("upload:\n  count: 4\n  folder: from-file\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("PHOTOSYNC_FOLDER", "from-env")

	config, err := Load(configPath, map[string]interface{}{"count": 9})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.Upload.Folder != "from-env" {
		t.Errorf("Expected env to override file, got %s", config.Upload.Folder)
	}
	if config.Upload.Count != 9 {
		t.Errorf("Expected flag to override file, got %d", config.Upload.Count)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("PHOTOSYNC_POLICY", "whenever")

	if _, err := Load(filepath.Join(t.TempDir(), "missing-is-fine-only-when-empty.yaml"), nil); err == nil {
		t.Error("Expected Load to fail")
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(configPath, nil); err == nil {
		t.Error("Expected validation to reject the policy")
	}
}
