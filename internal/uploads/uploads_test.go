package uploads

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"academic/models"

	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesSlotDirs(t *testing.T) {
	root := t.TempDir()
	_, err := NewStore(root)
	require.NoError(t, err)

	for _, slot := range models.DocumentSlots {
		info, err := os.Stat(filepath.Join(root, string(slot)))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestSaveAndOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save(models.SlotDiploma, "../../My Diploma.PDF", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rel, "diploma/"))
	require.True(t, strings.HasSuffix(rel, ".pdf"))
	require.NotContains(t, rel, "Diploma")

	f, err := store.Open(rel)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "pdf-bytes", string(data))
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(models.SlotCV, "cv.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(models.SlotCV, "cv.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestSaveRejectsUnknownSlot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(models.DocumentSlot("photos"), "a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidSlot)
}

func TestOpenRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, rel := range []string{"../etc/passwd", "cv/../../secret", "photos/a.png", "cv", "cv/", "cv/.hidden"} {
		_, err := store.Open(rel)
		require.ErrorIs(t, err, ErrInvalidPath, rel)
	}
}
