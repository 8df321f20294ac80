// Package storage holds the file store behind product image persistence.
// Handlers only see the narrow Store interface: save bytes and get back a
// reference, delete a reference.  The default implementation writes to
// local disk under the configured media root and the resulting paths are
// served statically at /media/.
package storage

import (
    "errors"
    "io"
    "io/fs"
    "os"
    "path"
    "path/filepath"
    "strings"

    "shop-backend/internal/utils"
)

// Store is the persistence contract for uploaded files.
type Store interface {
    // Save writes the reader's contents under the given subdirectory and
    // returns a relative reference usable for later Delete calls.  The
    // original filename is only consulted for its extension.
    Save(subdir, origName string, r io.Reader) (string, error)
    // Delete removes a previously stored file.  Deleting a reference that
    // no longer exists is not an error.
    Delete(ref string) error
}

// DiskStore implements Store on the local filesystem.
type DiskStore struct {
    root string
}

// NewDiskStore creates the media root directory if needed and returns a
// store rooted there.
func NewDiskStore(root string) (*DiskStore, error) {
    if root == "" {
        return nil, errors.New("storage: empty media root")
    }
    if err := os.MkdirAll(root, 0o755); err != nil {
        return nil, err
    }
    return &DiskStore{root: root}, nil
}

// Root returns the media root directory, used when mounting the static
// file route.
func (s *DiskStore) Root() string { return s.root }

// Save stores the file under root/subdir with a random hex name, keeping
// the original extension so browsers can infer the content type.
func (s *DiskStore) Save(subdir, origName string, r io.Reader) (string, error) {
    dir := filepath.Join(s.root, filepath.Clean(subdir))
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", err
    }
    name, err := utils.RandomHex(16)
    if err != nil {
        return "", err
    }
    if ext := sanitizeExt(origName); ext != "" {
        name += ext
    }
    f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
    if err != nil {
        return "", err
    }
    if _, err := io.Copy(f, r); err != nil {
        _ = f.Close()
        _ = os.Remove(f.Name())
        return "", err
    }
    if err := f.Close(); err != nil {
        return "", err
    }
    // References use forward slashes regardless of OS so they can double
    // as URL path segments.
    return path.Join(filepath.ToSlash(filepath.Clean(subdir)), name), nil
}

// Delete removes the referenced file.  A missing file is treated as
// already deleted.
func (s *DiskStore) Delete(ref string) error {
    clean := filepath.Clean(filepath.FromSlash(ref))
    if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
        return errors.New("storage: reference escapes media root")
    }
    err := os.Remove(filepath.Join(s.root, clean))
    if err != nil && !errors.Is(err, fs.ErrNotExist) {
        return err
    }
    return nil
}

// sanitizeExt returns a safe lowercase extension ("" when the original
// name has none or it contains suspicious characters).
func sanitizeExt(name string) string {
    ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
    if len(ext) < 2 || len(ext) > 8 {
        return ""
    }
    for _, r := range ext[1:] {
        if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
            return ""
        }
    }
    return ext
}
