package auth

import (
	"os"
	"time"
)

const (
	envVKToken   = "PHOTOSYNC_VK_TOKEN"
	envDiskToken = "PHOTOSYNC_DISK_TOKEN"
)

// EnvironmentStore is a read-only CredentialStore over the token
// environment variables. Both must be set for it to yield a profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(profile *Profile) error {
	return ErrStoreUnavailable
}

// Retrieve builds a profile from the environment. Any name matches.
func (e *EnvironmentStore) Retrieve(name string) (*Profile, error) {
	vkToken := os.Getenv(envVKToken)
	diskToken := os.Getenv(envDiskToken)
	if vkToken == "" || diskToken == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = DefaultProfile
	}
	return &Profile{
		Name:         name,
		VKToken:      vkToken,
		DiskToken:    diskToken,
		LastModified: time.Now(),
	}, nil
}

// List returns the environment profile if both tokens are set
func (e *EnvironmentStore) List() ([]*Profile, error) {
	profile, err := e.Retrieve("")
	if err != nil {
		return []*Profile{}, nil
	}
	return []*Profile{profile}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists reports whether both token variables are set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv(envVKToken) != "" && os.Getenv(envDiskToken) != ""
}
