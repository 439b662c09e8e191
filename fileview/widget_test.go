package fileview

import (
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileView(t *testing.T, files ...string) (*FileView, *testEnv) {
	t.Helper()
	test.NewTempApp(t)

	reg := NewRegistry()
	env := &testEnv{reg: reg, lister: &fakeLister{reg: reg}, sched: &manualScheduler{}}
	env.lister.set(testDir, files...)

	fv := NewFileView(Config{Registry: reg, Lister: env.lister, Scheduler: env.sched, Options: testOptions()})
	fv.Resize(fyne.NewSize(600, 400))
	require.NoError(t, fv.SetDirectory(testDir))
	env.sched.runIdle()
	t.Cleanup(fv.View().Destroy)
	return fv, env
}

func TestFileView_MirrorsRows(t *testing.T) {
	fv, _ := newTestFileView(t, sixFiles...)
	v := fv.View()

	want := columnsForWidth(600-theme.ScrollBarSize(), v.CellWidth())
	assert.Equal(t, want, v.Columns())
	assert.Equal(t, v.Rows(), fv.RowCount())
	assert.Equal(t, "a.jpg", fv.rows[0][0].File().Name())
	assert.False(t, fv.refreshQueued)

	row, col, ok := fv.SlotAt(5, 5)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
	_, _, ok = fv.SlotAt(-1, 5)
	assert.False(t, ok)
	assert.Equal(t, 0, fv.FirstVisibleRow())
}

func TestFileView_Keyboard(t *testing.T) {
	fv, env := newTestFileView(t, sixFiles...)
	v := fv.View()

	fv.TypedKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Equal(t, env.reg.Lookup("/pics/b.jpg"), v.Focus())
	assert.Equal(t, []string{"b.jpg"}, names(v.Selection()))

	fv.TypedShortcut(&fyne.ShortcutSelectAll{})
	n, _ := v.SelectionCount()
	assert.Equal(t, 6, n)

	fv.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.Empty(t, v.Selection())

	var activated *FileData
	v.OnActivate = func(fd *FileData) { activated = fd }
	fv.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, v.Focus(), activated)
}

func TestFileView_CopyPaths(t *testing.T) {
	fv, env := newTestFileView(t, sixFiles...)
	v := fv.View()

	fv.CopyPaths()
	assert.Equal(t, "/pics/a.jpg", fyne.CurrentApp().Clipboard().Content(), "focus is copied without a selection")

	v.SelectFiles([]*FileData{env.reg.Lookup("/pics/c.jpg"), env.reg.Lookup("/pics/e.jpg")})
	fv.TypedShortcut(&fyne.ShortcutCopy{})
	assert.Equal(t, "/pics/c.jpg\n/pics/e.jpg", fyne.CurrentApp().Clipboard().Content())
}

func TestFileView_SavePreferences(t *testing.T) {
	fv, _ := newTestFileView(t, sixFiles...)
	fv.View().SetLayout(ListView)

	p := fyne.CurrentApp().Preferences()
	fv.SavePreferences(p)
	assert.Equal(t, ListView, LoadOptions(p).Layout)
}

func TestFileView_ZoomStep(t *testing.T) {
	fv, _ := newTestFileView(t, sixFiles...)

	fv.onZoomStep(2)
	assert.Equal(t, 3, fv.View().ZoomLevel())
	fv.onZoomStep(-10)
	assert.Equal(t, 0, fv.View().ZoomLevel())
}

func TestToModifier(t *testing.T) {
	assert.Equal(t, Modifier(0), toModifier(0))
	assert.Equal(t, ModShift, toModifier(fyne.KeyModifierShift))
	assert.Equal(t, ModShift|ModControl, toModifier(fyne.KeyModifierShift|fyne.KeyModifierControl))
	assert.Equal(t, ModControl, toModifier(fyne.KeyModifierShortcutDefault))
}

func TestShortenName(t *testing.T) {
	measure := func(s string) float32 { return float32(len(s)) }

	assert.Equal(t, "a.jpg", shortenName("a.jpg", 10, measure))
	assert.Equal(t, "abcd..jpg", shortenName("abcdefghij.jpg", 10, measure))
	assert.Equal(t, "...jpg", shortenName("abcdefghij.jpg", 5, measure))
	assert.Equal(t, "abcdef..", shortenName("abcdefghijkl", 8, measure))
}

func TestZoomAccumulate(t *testing.T) {
	test.NewTempApp(t)
	var steps []int
	z := newZoomScrollOverlay(func(n int) { steps = append(steps, n) })

	assert.Equal(t, 0, z.accumulate(20))
	assert.Equal(t, 1, z.accumulate(20))
	assert.Equal(t, -2, z.accumulate(-85))

	z.accDY = 0
	z.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 40}})
	z.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: float32(math.NaN())}})
	assert.Equal(t, []int{1}, steps)
}
