/**
 * Config Persister - records the wallpaper in the desktop shell's settings
 *
 * The pcmanfm-qt settings file is rewritten through a locked sibling temp
 * file and renamed into place, so readers never observe a partial write.
 */

package persister

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// DefaultKey is the settings key holding the wallpaper path
const DefaultKey = "Wallpaper"

// DefaultPath returns the pcmanfm-qt settings file for profile under home
func DefaultPath(home, profile string) string {
	return filepath.Join(home, ".config", "pcmanfm-qt", profile, "settings.conf")
}

// Persister writes the wallpaper path into one settings file
type Persister struct {
	Path string
	Key  string

	logger *utility.Logger
	rename func(oldpath, newpath string) error
}

// Option customizes a Persister
type Option func(*Persister)

// WithRename replaces os.Rename for the final step
func WithRename(rename func(oldpath, newpath string) error) Option {
	return func(p *Persister) { p.rename = rename }
}

// WithLogger sets the logger
func WithLogger(logger *utility.Logger) Option {
	return func(p *Persister) { p.logger = logger }
}

// New creates a Persister for path. An empty path makes every Persist fail
// with a PersistError.
func New(path string, opts ...Option) *Persister {
	p := &Persister{Path: path, Key: DefaultKey, rename: os.Rename}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = utility.Discard()
	}
	return p
}

// Resolve picks the settings file: override wins, otherwise the profile file
// under home. It returns "" when neither is usable.
func Resolve(override, home, profile string) string {
	if override != "" {
		return override
	}
	if home == "" {
		return ""
	}
	return DefaultPath(home, profile)
}

// lockAttempts bounds how often Persist reopens a temp file that another
// writer renamed or removed while this one waited for the lock.
const lockAttempts = 64

// Persist sets the wallpaper key to absPath. Running it twice with the same
// path leaves the file unchanged the second time.
//
// The temp file lock is held from before the source is read until after the
// rename.
func (p *Persister) Persist(absPath string) error {
	if p.Path == "" {
		return wperrors.New(wperrors.KindPersist, "resolve config path",
			errors.New("home directory is not set"))
	}

	tmpPath := p.Path + ".tmp"
	tmp, err := lockTemp(tmpPath)
	if err != nil {
		return wperrors.WithPath(wperrors.KindPersist, "lock config", tmpPath, err)
	}
	defer tmp.Close()

	if err := p.replace(tmp, tmpPath, absPath); err != nil {
		// tmpPath still names the locked inode, so no other writer owns it
		os.Remove(tmpPath)
		return err
	}

	p.logger.Debug("Persisted %s=%s to %s", p.Key, absPath, p.Path)
	return nil
}

// lockTemp opens tmpPath and takes an exclusive lock on it. When the path no
// longer names the locked inode, another writer renamed or removed it while
// this one waited, and the open is retried.
func lockTemp(tmpPath string) (*os.File, error) {
	for range lockAttempts {
		tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE, 0o600)
		if err != nil {
			return nil, err
		}
		if err := unix.Flock(int(tmp.Fd()), unix.LOCK_EX); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("lock: %w", err)
		}

		held, err := tmp.Stat()
		if err != nil {
			tmp.Close()
			return nil, fmt.Errorf("stat lock: %w", err)
		}
		current, err := os.Stat(tmpPath)
		if err == nil && os.SameFile(held, current) {
			return tmp, nil
		}
		tmp.Close()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat lock: %w", err)
		}
	}
	return nil, fmt.Errorf("lock: temp file kept changing after %d attempts", lockAttempts)
}

// replace reads the live settings file, writes the rewritten copy into the
// locked temp file and renames it into place.
func (p *Persister) replace(tmp *os.File, tmpPath, absPath string) error {
	src, err := os.Open(p.Path)
	if err != nil {
		return wperrors.WithPath(wperrors.KindPersist, "open config", p.Path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return wperrors.WithPath(wperrors.KindPersist, "stat config", p.Path, err)
	}

	if err := p.writeTemp(src, tmp, info.Mode().Perm(), absPath); err != nil {
		return wperrors.WithPath(wperrors.KindPersist, "write config", tmpPath, err)
	}

	if err := p.rename(tmpPath, p.Path); err != nil {
		return wperrors.WithPath(wperrors.KindPersist, "replace config", p.Path, err)
	}
	return nil
}

// writeTemp truncates the locked temp file and fills it with src, key rewritten
func (p *Persister) writeTemp(src io.Reader, tmp *os.File, mode os.FileMode, absPath string) error {
	if err := tmp.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	w := bufio.NewWriter(tmp)
	if err := p.rewrite(bufio.NewReader(src), w, absPath); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	return nil
}

// rewrite copies every line verbatim except the key line. The first key line
// is replaced and later ones are dropped. Without one, the key is appended.
func (p *Persister) rewrite(r *bufio.Reader, w *bufio.Writer, absPath string) error {
	prefix := p.Key + "="
	entry := prefix + absPath
	replaced := false
	last := ""

	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if strings.HasPrefix(line, prefix) {
				if !replaced {
					replaced = true
					ending := ""
					if strings.HasSuffix(line, "\n") {
						ending = "\n"
					}
					if _, werr := w.WriteString(entry + ending); werr != nil {
						return werr
					}
					last = entry + ending
				}
			} else {
				if _, werr := w.WriteString(line); werr != nil {
					return werr
				}
				last = line
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
	}

	if replaced {
		return nil
	}
	if last != "" && !strings.HasSuffix(last, "\n") {
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	_, err := w.WriteString(entry + "\n")
	return err
}
