// Package hooks installs the repository's Git hooks into .git/hooks.
package hooks

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Names are the hooks shipped in the hooks/ directory.
var Names = []string{"pre-commit", "pre-push"}

// Mode is applied to every installed hook.
const Mode fs.FileMode = 0o775

// Install copies each named hook from srcDir to dstDir and makes it
// executable. dstDir must already exist.
func Install(srcDir, dstDir string, names []string, w io.Writer) error {
	info, err := os.Stat(dstDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found: run from the repository root", dstDir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dstDir)
	}

	for _, name := range names {
		dst := filepath.Join(dstDir, name)
		if err := copyFile(filepath.Join(srcDir, name), dst); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
		// chmod explicitly; the umask may have narrowed the create mode
		if err := os.Chmod(dst, Mode); err != nil {
			return fmt.Errorf("chmod %s: %w", name, err)
		}
		fmt.Fprintf(w, "✅ Hook %s installé dans %s\n", name, dstDir)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, Mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
