// Package backend runs the Python backend inside its virtual environment.
package backend

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
	ErrRuntimeMissing    = errors.New("runtime environment missing")
	ErrEntrypointMissing = errors.New("backend entrypoint missing")
)

// Environment variables changed by Activate
const (
	envVirtualEnv = "VIRTUAL_ENV"
	envPath       = "PATH"
)

type savedVar struct {
	value   string
	present bool
}

// Runtime is the backend home and its virtual environment
type Runtime struct {
	home string

	lookupEnv func(string) (string, bool)
	setenv    func(string, string) error
	unsetenv  func(string) error

	saved  map[string]savedVar
	active bool
}

// NewRuntime creates a Runtime for the backend installed in home
func NewRuntime(home string) *Runtime {
	return &Runtime{
		home:      home,
		lookupEnv: os.LookupEnv,
		setenv:    os.Setenv,
		unsetenv:  os.Unsetenv,
	}
}

// Home returns the backend directory
func (r *Runtime) Home() string {
	return r.home
}

// VenvDir returns the virtual environment directory
func (r *Runtime) VenvDir() string {
	return filepath.Join(r.home, constants.VenvDirName)
}

// BinDir returns the virtual environment's bin directory
func (r *Runtime) BinDir() string {
	return filepath.Join(r.VenvDir(), "bin")
}

// Python returns the virtual environment's interpreter
func (r *Runtime) Python() string {
	return filepath.Join(r.BinDir(), "python")
}

// Entrypoint returns the backend's main script
func (r *Runtime) Entrypoint() string {
	return filepath.Join(r.home, constants.BackendEntrypoint)
}

// Check verifies the interpreter and the entrypoint exist
func (r *Runtime) Check() error {
	if _, err := os.Stat(r.Python()); err != nil {
		return fmt.Errorf("%w: %s not found (run 'genpod install')", ErrRuntimeMissing, r.Python())
	}
	if _, err := os.Stat(r.Entrypoint()); err != nil {
		return fmt.Errorf("%w: %s not found", ErrEntrypointMissing, r.Entrypoint())
	}
	return nil
}

// Activate points VIRTUAL_ENV and PATH at the virtual environment for
// this process. The previous values are restored by Release.
func (r *Runtime) Activate() error {
	if r.active {
		return nil
	}

	r.saved = make(map[string]savedVar, 2)
	for _, key := range []string{envVirtualEnv, envPath} {
		v, ok := r.lookupEnv(key)
		r.saved[key] = savedVar{value: v, present: ok}
	}

	if err := r.setenv(envVirtualEnv, r.VenvDir()); err != nil {
		return fmt.Errorf("failed to set %s: %w", envVirtualEnv, err)
	}
	if err := r.setenv(envPath, r.prefixPath(r.saved[envPath].value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", envPath, err)
	}
	r.active = true
	return nil
}

// Release restores the variables changed by Activate. Safe to call when
// not active.
func (r *Runtime) Release() error {
	if !r.active {
		return nil
	}
	r.active = false

	var errs []error
	for key, sv := range r.saved {
		var err error
		if sv.present {
			err = r.setenv(key, sv.value)
		} else {
			err = r.unsetenv(key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", key, err))
		}
	}
	r.saved = nil
	return errors.Join(errs...)
}

// Active reports whether Activate is in effect
func (r *Runtime) Active() bool {
	return r.active
}

// Overrides returns the variables a backend child needs on top of the
// inherited environment
func (r *Runtime) Overrides() map[string]string {
	current, _ := r.lookupEnv(envPath)
	return map[string]string{
		envVirtualEnv: r.VenvDir(),
		envPath:       r.prefixPath(current),
	}
}

// prefixPath puts the venv bin first, once
func (r *Runtime) prefixPath(path string) string {
	bin := r.BinDir()
	if path == "" {
		return bin
	}
	if path == bin || strings.HasPrefix(path, bin+string(os.PathListSeparator)) {
		return path
	}
	return bin + string(os.PathListSeparator) + path
}
