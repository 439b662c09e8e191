package fileview

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testDir = "/pics"

// manualScheduler queues callbacks until the test runs them.
type manualScheduler struct {
	idle  []*scheduled
	timed []*scheduled
}

type scheduled struct {
	fn        func()
	d         time.Duration
	cancelled bool
}

func (s *manualScheduler) Idle(fn func()) func() {
	t := &scheduled{fn: fn}
	s.idle = append(s.idle, t)
	return func() { t.cancelled = true }
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := &scheduled{fn: fn, d: d}
	s.timed = append(s.timed, t)
	return func() { t.cancelled = true }
}

func (s *manualScheduler) runIdle() {
	for len(s.idle) > 0 {
		queue := s.idle
		s.idle = nil
		for _, t := range queue {
			if !t.cancelled {
				t.fn()
			}
		}
	}
}

func (s *manualScheduler) fireTimers() {
	queue := s.timed
	s.timed = nil
	for _, t := range queue {
		if !t.cancelled {
			t.fn()
		}
	}
}

type fakeFile struct {
	name string
	size int64
	mod  time.Time
}

type fakeLister struct {
	reg   *Registry
	files map[string][]fakeFile
	err   error
	calls int
}

func (l *fakeLister) List(dir string) ([]*FileData, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	var out []*FileData
	for _, f := range l.files[dir] {
		out = append(out, l.reg.Acquire(filepath.Join(dir, f.name), f.size, f.mod))
	}
	return out, nil
}

func (l *fakeLister) set(dir string, names ...string) {
	files := make([]fakeFile, len(names))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range names {
		files[i] = fakeFile{name: n, size: int64(100 * (i + 1)), mod: base.Add(time.Duration(i) * time.Hour)}
	}
	if l.files == nil {
		l.files = make(map[string][]fakeFile)
	}
	l.files[dir] = files
}

// recordingSink mirrors the rows it is given.
type recordingSink struct {
	rows      [][]*Entry
	refreshed []int
}

func (s *recordingSink) RowCount() int { return len(s.rows) }

func (s *recordingSink) InsertRow(i int, cells []*Entry) {
	s.rows = append(s.rows, nil)
	copy(s.rows[i+1:], s.rows[i:])
	s.rows[i] = cells
}

func (s *recordingSink) SetRow(i int, cells []*Entry) { s.rows[i] = cells }
func (s *recordingSink) RemoveRow(i int)              { s.rows = append(s.rows[:i], s.rows[i+1:]...) }
func (s *recordingSink) RefreshRow(i int)             { s.refreshed = append(s.refreshed, i) }

// names returns the file names shown per row, "" for empty slots.
func (s *recordingSink) names() [][]string {
	out := make([][]string, len(s.rows))
	for r, cells := range s.rows {
		for _, e := range cells {
			if e == nil {
				out[r] = append(out[r], "")
			} else {
				out[r] = append(out[r], e.File().Name())
			}
		}
	}
	return out
}

// fakeViewport lays slots out as 100x100 squares.
type fakeViewport struct {
	first   int
	visible int
	made    []int
}

func (v *fakeViewport) SlotAt(x, y float32) (int, int, bool) {
	if x < 0 || y < 0 {
		return -1, -1, false
	}
	return v.first + int(y/100), int(x / 100), true
}

func (v *fakeViewport) FirstVisibleRow() int   { return v.first }
func (v *fakeViewport) VisibleRowCount() int   { return v.visible }
func (v *fakeViewport) MakeRowVisible(row int) { v.made = append(v.made, row) }

type layoutCall struct {
	fd, ahead *FileData
}

type fakeLayout struct {
	current    *FileData
	collection bool
	calls      []layoutCall
}

func (l *fakeLayout) CurrentImage() *FileData { return l.current }
func (l *fakeLayout) ShowingCollection() bool { return l.collection }

func (l *fakeLayout) SetImage(fd, ahead *FileData) {
	l.current = fd
	l.calls = append(l.calls, layoutCall{fd, ahead})
}

type fakeTask struct {
	cancelled bool
}

func (t *fakeTask) Cancel() { t.cancelled = true }

type loadRequest struct {
	path string
	task *fakeTask
	done func(image.Image, error)
}

type fakeLoader struct {
	requests []*loadRequest
	refuse   map[string]bool
}

func (l *fakeLoader) StartLoad(path string, _, _ int, done func(image.Image, error)) ThumbnailTask {
	if l.refuse[filepath.Base(path)] {
		return nil
	}
	r := &loadRequest{path: path, task: &fakeTask{}, done: done}
	l.requests = append(l.requests, r)
	return r.task
}

func (l *fakeLoader) last() *loadRequest {
	if len(l.requests) == 0 {
		return nil
	}
	return l.requests[len(l.requests)-1]
}

type testEnv struct {
	reg    *Registry
	lister *fakeLister
	sink   *recordingSink
	vp     *fakeViewport
	sched  *manualScheduler
	layout *fakeLayout
	loader *fakeLoader
}

// newTestView builds a four column view over testDir holding names.
func newTestView(t *testing.T, opts Options, names ...string) (*IconView, *testEnv) {
	t.Helper()
	reg := NewRegistry()
	env := &testEnv{
		reg:    reg,
		lister: &fakeLister{reg: reg},
		sink:   &recordingSink{},
		vp:     &fakeViewport{visible: 3},
		sched:  &manualScheduler{},
		layout: &fakeLayout{},
	}
	env.lister.set(testDir, names...)

	cfg := Config{
		Registry:  reg,
		Lister:    env.lister,
		Sink:      env.sink,
		Viewport:  env.vp,
		Layout:    env.layout,
		Scheduler: env.sched,
		Options:   opts,
	}
	if opts.Thumbnails {
		env.loader = &fakeLoader{}
		cfg.Thumbs = env.loader
	}
	v := NewIconView(cfg)
	v.SetViewportWidth(4 * v.CellWidth())
	require.Equal(t, 4, v.Columns())
	require.NoError(t, v.SetDirectory(testDir))
	t.Cleanup(v.Destroy)
	return v, env
}

func testOptions() Options {
	o := DefaultOptions()
	o.Thumbnails = false
	return o
}

func (env *testEnv) file(name string) *FileData {
	return env.reg.Lookup(filepath.Join(testDir, name))
}

func names(files []*FileData) []string {
	out := make([]string, len(files))
	for i, fd := range files {
		out[i] = fd.Name()
	}
	return out
}
