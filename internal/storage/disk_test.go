package storage

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDiskStoreSaveAndDelete(t *testing.T) {
    store, err := NewDiskStore(t.TempDir())
    require.NoError(t, err)

    ref, err := store.Save("product_images", "photo.JPG", strings.NewReader("fake-image-bytes"))
    require.NoError(t, err)
    assert.True(t, strings.HasPrefix(ref, "product_images/"))
    assert.True(t, strings.HasSuffix(ref, ".jpg"), "extension should be kept lowercase: %s", ref)

    data, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(ref)))
    require.NoError(t, err)
    assert.Equal(t, "fake-image-bytes", string(data))

    require.NoError(t, store.Delete(ref))
    _, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(ref)))
    assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreSaveUniqueNames(t *testing.T) {
    store, err := NewDiskStore(t.TempDir())
    require.NoError(t, err)

    a, err := store.Save("product_images", "a.png", strings.NewReader("a"))
    require.NoError(t, err)
    b, err := store.Save("product_images", "a.png", strings.NewReader("b"))
    require.NoError(t, err)
    assert.NotEqual(t, a, b)
}

func TestDiskStoreStripsSuspiciousExtension(t *testing.T) {
    store, err := NewDiskStore(t.TempDir())
    require.NoError(t, err)

    ref, err := store.Save("product_images", "evil.p!g", strings.NewReader("x"))
    require.NoError(t, err)
    assert.False(t, strings.Contains(ref, "!"))
    assert.False(t, strings.HasSuffix(ref, ".p!g"))
}

func TestDiskStoreDeleteMissingIsNoError(t *testing.T) {
    store, err := NewDiskStore(t.TempDir())
    require.NoError(t, err)
    assert.NoError(t, store.Delete("product_images/nothere.jpg"))
}

func TestDiskStoreDeleteRejectsEscape(t *testing.T) {
    store, err := NewDiskStore(t.TempDir())
    require.NoError(t, err)
    assert.Error(t, store.Delete("../outside.txt"))
    assert.Error(t, store.Delete("/etc/passwd"))
}

func TestNewDiskStoreEmptyRoot(t *testing.T) {
    _, err := NewDiskStore("")
    assert.Error(t, err)
}
