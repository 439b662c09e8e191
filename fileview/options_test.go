package fileview

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_Defaults(t *testing.T) {
	a := test.NewTempApp(t)

	assert.Equal(t, DefaultOptions(), LoadOptions(a.Preferences()))
}

func TestOptions_PreferencesRoundTrip(t *testing.T) {
	a := test.NewTempApp(t)

	o := DefaultOptions()
	o.SortMethod = SortTime
	o.SortAscending = false
	o.Layout = ListView
	o.RectangularSelection = true
	o.ShowFilenames = false
	o.Filter = "*.png"
	o.ThumbMaxWidth = 200
	o.ZoomLevel = 3
	o.Save(a.Preferences())

	assert.Equal(t, o, LoadOptions(a.Preferences()))
}

func TestLoadOptions_RepairsBadValues(t *testing.T) {
	a := test.NewTempApp(t)
	p := a.Preferences()
	p.SetInt(sortMethodKey, 42)
	p.SetInt(viewLayoutKey, 9)
	p.SetInt(zoomLevelKey, -4)
	p.SetInt(thumbWidthKey, 2)

	o := LoadOptions(p)
	assert.Equal(t, SortName, o.SortMethod)
	assert.Equal(t, GridView, o.Layout)
	assert.Equal(t, 0, o.ZoomLevel)
	assert.Equal(t, 128, o.ThumbMaxWidth)
}

func TestOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fileview.yaml")

	o, err := LoadOptionsFile(path)
	require.NoError(t, err, "a missing file gives defaults")
	assert.Equal(t, DefaultOptions(), o)

	o.Layout = ListView
	o.SortMethod = SortSize
	o.ReadAhead = true
	require.NoError(t, WriteOptionsFile(path, o))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "layout: list")
	assert.Contains(t, string(data), "sort_method: size")

	back, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestOptionsFile_PartialAndInvalid(t *testing.T) {
	dir := t.TempDir()

	partial := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("sort_method: date\nthumbnails: false\n"), 0o644))
	o, err := LoadOptionsFile(partial)
	require.NoError(t, err)
	assert.Equal(t, SortTime, o.SortMethod)
	assert.False(t, o.Thumbnails)
	assert.True(t, o.ShowFilenames)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("layout: sideways\n"), 0o644))
	_, err = LoadOptionsFile(bad)
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	for in, want := range map[string]SortMethod{"name": SortName, "Size": SortSize, " date ": SortTime, "time": SortTime} {
		got, err := ParseSortMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortMethod("colour")
	assert.Error(t, err)

	l, err := ParseViewLayout("grid")
	require.NoError(t, err)
	assert.Equal(t, GridView, l)
	assert.Equal(t, "icons", l.String())
	l, err = ParseViewLayout("LIST")
	require.NoError(t, err)
	assert.Equal(t, ListView, l)
	_, err = ParseViewLayout("tree")
	assert.Error(t, err)
}
