package core

import (
	"fmt"
	"strings"
	"unicode"
)

// Package identifies an installable unit. Uniqueness is by value.
type Package string

// String implements fmt.Stringer
func (p Package) String() string {
	return string(p)
}

// Packages converts plain names to package identifiers
func Packages(names ...string) []Package {
	pkgs := make([]Package, len(names))
	for i, name := range names {
		pkgs[i] = Package(name)
	}
	return pkgs
}

// Names converts package identifiers to plain strings
func Names(pkgs []Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = string(p)
	}
	return names
}

// ParsePackage validates a user supplied package name
func ParsePackage(name string) (Package, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidPackage)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidPackage, name)
	}
	return Package(name), nil
}

// Operation names a backend state transition
type Operation string

const (
	OpInstall   Operation = "install"
	OpUninstall Operation = "uninstall"
)

// FailurePolicy controls how backend failures affect an engine operation
type FailurePolicy string

const (
	// FailStrict aborts the enclosing operation on the first backend error
	FailStrict FailurePolicy = "strict"
	// FailLenient logs backend errors and records the transition anyway
	FailLenient FailurePolicy = "lenient"
)

// ParseFailurePolicy converts a config value to a FailurePolicy
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FailStrict:
		return FailStrict, nil
	case FailLenient:
		return FailLenient, nil
	default:
		return "", fmt.Errorf("unknown failure policy: %q", s)
	}
}

// InstallOptions contains options for a dependency-aware operation
type InstallOptions struct {
	DryRun bool // Only compute the plan, do not call the backend
	Quiet  bool // Suppress progress output
}

// Exit codes returned by the depkg binary
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitInvalidArgs     = 2
	ExitInstallFailed   = 3
	ExitUninstallFailed = 4
	ExitDatabase        = 5
	ExitPermission      = 6
	ExitCommandNotFound = 8
	ExitDependencyCycle = 9
	ExitLocked          = 10
	ExitInterrupted     = 130
)
