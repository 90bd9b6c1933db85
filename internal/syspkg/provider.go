package syspkg

import (
	"context"
)

// Options configures how providers invoke the system package manager
type Options struct {
	UseSudo bool // Prefix mutating commands with sudo
}

// Provider defines the interface for system package management
type Provider interface {
	// Name returns the provider name (e.g., "pacman", "apt", "dnf")
	Name() string

	// Binary returns the executable whose presence selects this provider
	Binary() string

	// Install installs a package by name from the configured repositories
	Install(ctx context.Context, pkgName string) error

	// Remove removes a package by name
	Remove(ctx context.Context, pkgName string) error

	// IsInstalled checks if a package is installed
	IsInstalled(ctx context.Context, pkgName string) (bool, error)
}
