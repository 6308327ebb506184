// Package installer performs the one-time genpod setup: it stages the
// backend tree, prepares its virtual environment, writes the configuration
// document and installs the launcher command.
package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genpod/genpod-cli/internal/constants"
)

// Errors
var (
	ErrNoWritableRoot  = errors.New("no writable install location found")
	ErrRemovePrevious  = errors.New("failed to remove previous installation")
	ErrCopyFailed      = errors.New("failed to copy source tree")
	ErrRuntimeSetup    = errors.New("failed to set up runtime environment")
	ErrSourceInInstall = errors.New("source directory is inside the install directory")
)

// Remediation is printed with ErrNoWritableRoot
const Remediation = `Try one of:
  - retry with elevated privileges:   sudo genpod install
  - choose a writable location:       ` + constants.EnvInstallDir + `=/path/to/dir genpod install
  - create the user-local directory:  mkdir -p ~/.local/share`

// Target is a resolved install location
type Target struct {
	// Kind is "override", "system" or "user"
	Kind        string
	InstallDir  string
	LauncherDir string
}

// LauncherPath returns the path of the launcher script
func (t Target) LauncherPath() string {
	return filepath.Join(t.LauncherDir, constants.LauncherName)
}

// BinaryPath returns where the CLI binary is copied
func (t Target) BinaryPath() string {
	return filepath.Join(t.InstallDir, "bin", constants.BinaryName)
}

// Resolver picks the install location
type Resolver struct {
	// Override comes from GENPOD_INSTALL_DIR and disables probing
	Override          string
	SystemDir         string
	SystemLauncherDir string
	UserHome          string
}

// NewResolver creates a Resolver with the standard candidates
func NewResolver(userHome string) *Resolver {
	return &Resolver{
		Override:          strings.TrimSpace(os.Getenv(constants.EnvInstallDir)),
		SystemDir:         constants.SystemInstallDir,
		SystemLauncherDir: constants.SystemLauncherDir,
		UserHome:          userHome,
	}
}

func (r *Resolver) userShareDir() string {
	return filepath.Join(r.UserHome, ".local", "share")
}

func (r *Resolver) userLauncherDir() string {
	return filepath.Join(r.UserHome, ".local", "bin")
}

// Resolve returns the first writable candidate: the override when set,
// otherwise the system location, then the user-local one.
func (r *Resolver) Resolve() (Target, error) {
	if r.Override != "" {
		t := Target{Kind: "override", InstallDir: r.Override, LauncherDir: r.userLauncherDir()}
		if !writableFor(t.InstallDir) {
			return Target{}, fmt.Errorf("%w: %s=%s is not writable\n%s", ErrNoWritableRoot, constants.EnvInstallDir, r.Override, Remediation)
		}
		if !writableFor(t.LauncherDir) {
			return Target{}, fmt.Errorf("%w: launcher directory %s is not writable\n%s", ErrNoWritableRoot, t.LauncherDir, Remediation)
		}
		return t, nil
	}

	system := Target{Kind: "system", InstallDir: r.SystemDir, LauncherDir: r.SystemLauncherDir}
	if writableFor(system.InstallDir) && writableFor(system.LauncherDir) {
		return system, nil
	}

	user := Target{
		Kind:        "user",
		InstallDir:  filepath.Join(r.userShareDir(), constants.AppName),
		LauncherDir: r.userLauncherDir(),
	}
	if info, err := os.Stat(r.userShareDir()); err == nil && info.IsDir() {
		if writableFor(user.InstallDir) && writableFor(user.LauncherDir) {
			return user, nil
		}
	}

	return Target{}, fmt.Errorf("%w (tried %s and %s)\n%s", ErrNoWritableRoot, system.InstallDir, user.InstallDir, Remediation)
}

// writableFor reports whether path, or its nearest existing ancestor,
// is a directory that accepts a new file
func writableFor(path string) bool {
	dir, ok := nearestExistingDir(path)
	if !ok {
		return false
	}
	return canWrite(dir)
}

// nearestExistingDir walks up from path to the first entry that exists.
// It fails if that entry is not a directory.
func nearestExistingDir(path string) (string, bool) {
	p := filepath.Clean(path)
	for {
		info, err := os.Stat(p)
		if err == nil {
			return p, info.IsDir()
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", false
		}
		p = parent
	}
}

// canWrite creates and removes a probe file in dir
func canWrite(dir string) bool {
	f, err := os.CreateTemp(dir, ".genpod-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
