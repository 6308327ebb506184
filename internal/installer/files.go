package installer

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are never copied into the install directory
var skipDirs = map[string]bool{
	".git":        true,
	".venv":       true,
	"__pycache__": true,
}

// removePrevious deletes an earlier install directory and launcher.
// It reports whether anything was removed.
func removePrevious(t Target, remove func(string) error) (bool, error) {
	removed := false
	for _, p := range []string{t.InstallDir, t.LauncherPath()} {
		if _, err := os.Lstat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("%w: %s: %v", ErrRemovePrevious, p, err)
		}
		if err := remove(p); err != nil {
			return removed, fmt.Errorf("%w: %s: %v", ErrRemovePrevious, p, err)
		}
		removed = true
	}
	return removed, nil
}

// checkOverlap rejects installing over the tree being copied
func checkOverlap(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst || strings.HasPrefix(absSrc, absDst+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrSourceInInstall, absSrc)
	}
	return nil
}

// CopyTree copies src into dst, skipping VCS, virtualenv and bytecode
// directories. Symlinks are recreated, not followed. If dst lies inside
// src it is skipped.
func CopyTree(src, dst string) error {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if rel != "." && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); abs == absDst {
				return filepath.SkipDir
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, target, info.Mode().Perm())
		default:
			// sockets, devices and pipes are not part of a source tree
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	return nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeExecutable writes data to path with mode 0755, creating parents
func writeExecutable(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0755); err != nil {
		return err
	}
	// WriteFile is subject to umask
	return os.Chmod(path, 0755)
}

// LauncherScript returns the shell script installed as the genpod command
func LauncherScript(t Target) string {
	return fmt.Sprintf("#!/bin/sh\nGENPOD_HOME=%s\nexport GENPOD_HOME\nexec %s \"$@\"\n",
		shellQuote(t.InstallDir), shellQuote(t.BinaryPath()))
}

// shellQuote single-quotes s for POSIX sh
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// expandHome replaces a leading ~ with home
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// onPath reports whether dir is listed in the PATH value
func onPath(dir, pathEnv string) bool {
	clean := filepath.Clean(dir)
	for _, p := range filepath.SplitList(pathEnv) {
		if p != "" && filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}
