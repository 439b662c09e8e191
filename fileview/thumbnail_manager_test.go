package fileview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestThumbnailManager_GenerateCacheKey(t *testing.T) {
	tm := &ThumbnailManager{}

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "test.mp4")
	_ = os.WriteFile(filePath, make([]byte, 100*1024), 0644)

	key1, err := tm.generateCacheKey(filePath, 128, 96)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	key2, err := tm.generateCacheKey(filePath, 128, 96)
	if err != nil {
		t.Fatalf("Failed to generate key2: %v", err)
	}
	if key1 != key2 {
		t.Errorf("Keys should be identical for same file: %s != %s", key1, key2)
	}

	// Other bounds -> different key
	if key, _ := tm.generateCacheKey(filePath, 256, 192); key == key1 {
		t.Error("Key should change with the requested size")
	}

	// Modify modification time -> different key
	time.Sleep(10 * time.Millisecond)
	now := time.Now()
	_ = os.Chtimes(filePath, now, now)

	key3, err := tm.generateCacheKey(filePath, 128, 96)
	if err != nil {
		t.Fatalf("Failed to generate key3: %v", err)
	}
	if key3 == key1 {
		t.Error("Key should change when modification time changes")
	}

	// Modify content (within first 32KB) -> different key
	f, _ := os.OpenFile(filePath, os.O_WRONLY, 0644)
	f.Write([]byte("change"))
	f.Close()
	_ = os.Chtimes(filePath, now, now)

	key4, err := tm.generateCacheKey(filePath, 128, 96)
	if err != nil {
		t.Fatalf("Failed to generate key4: %v", err)
	}
	if key4 == key3 {
		t.Error("Key should change when first 32KB content changes")
	}

	if _, err := tm.generateCacheKey(filepath.Join(tmpDir, "missing.jpg"), 128, 96); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestThumbnailManager_CleanupCache(t *testing.T) {
	tmpDir := t.TempDir()
	tm := &ThumbnailManager{
		cacheDir: tmpDir,
	}

	oldSize := MaxCacheSize
	oldFiles := MaxCacheFiles
	MaxCacheSize = 100
	MaxCacheFiles = 5
	defer func() {
		MaxCacheSize = oldSize
		MaxCacheFiles = oldFiles
	}()

	for i := range 10 {
		path := filepath.Join(tmpDir, string(rune('a'+i))+".jpg")
		_ = os.WriteFile(path, []byte("fake image data"), 0644)
		mtime := time.Now().Add(time.Duration(i-100) * time.Minute)
		_ = os.Chtimes(path, mtime, mtime)
	}
	// not a cache entry
	_ = os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("keep"), 0644)

	tm.cleanupCache()

	files, _ := os.ReadDir(tmpDir)
	var jpgs []string
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".jpg" {
			jpgs = append(jpgs, f.Name())
		}
	}
	if len(jpgs) > 4 {
		t.Errorf("Cleanup failed to evict enough files. Got %d, expected <= 4", len(jpgs))
	}
	for _, name := range jpgs {
		if name < "g.jpg" {
			t.Errorf("Cleanup deleted newest file or kept oldest: %s", name)
		}
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "notes.txt")); err != nil {
		t.Errorf("Cleanup removed a file it does not own: %v", err)
	}
}

func TestScaleToFit(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 400, 200))
	got := scaleToFit(wide, 128, 96).Bounds()
	if got.Dx() != 128 || got.Dy() != 64 {
		t.Errorf("Expected 128x64, got %dx%d", got.Dx(), got.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	got = scaleToFit(tall, 128, 96).Bounds()
	if got.Dx() != 24 || got.Dy() != 96 {
		t.Errorf("Expected 24x96, got %dx%d", got.Dx(), got.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if scaleToFit(small, 128, 96) != image.Image(small) {
		t.Error("Images that already fit should be returned unchanged")
	}

	if scaleToFit(image.NewRGBA(image.Rect(0, 0, 0, 0)), 128, 96) != nil {
		t.Error("Empty images should give nil")
	}
}

func TestParseDuration(t *testing.T) {
	out := "Input #0, mov,mp4\n  Duration: 00:01:02.50, start: 0.000000, bitrate: 10 kb/s\n"
	d, err := parseDuration(out)
	if err != nil {
		t.Fatalf("parseDuration: %v", err)
	}
	if want := time.Minute + 2500*time.Millisecond; d != want {
		t.Errorf("Expected %v, got %v", want, d)
	}

	if _, err := parseDuration("no duration here"); err == nil {
		t.Error("Expected an error without a duration line")
	}
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

type thumbResult struct {
	img image.Image
	err error
}

func newSyncManager(t *testing.T, cacheDir string) *ThumbnailManager {
	t.Helper()
	m := NewThumbnailManager(cacheDir, "ffmpeg", 1)
	m.deliver = func(fn func()) { fn() }
	return m
}

func waitThumb(t *testing.T, ch <-chan thumbResult) thumbResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for thumbnail")
	}
	return thumbResult{}
}

func TestThumbnailManager_LoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")
	src := filepath.Join(tmpDir, "photo.png")
	writeTestPNG(t, src, 300, 150)

	m := newSyncManager(t, cacheDir)
	ch := make(chan thumbResult, 1)
	task := m.StartLoad(src, 128, 96, func(img image.Image, err error) {
		ch <- thumbResult{img, err}
	})
	if task == nil {
		t.Fatal("Expected a task for a png file")
	}

	r := waitThumb(t, ch)
	if r.err != nil {
		t.Fatalf("Thumbnail generation failed: %v", r.err)
	}
	if b := r.img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("Expected 128x64 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}
	if m.LoadMemoryOnly(src, 128, 96) == nil {
		t.Error("Thumbnail should be kept in memory")
	}

	key, err := m.generateCacheKey(src, 128, 96)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, key+".jpg")); err != nil {
		t.Errorf("Thumbnail should be written to the disk cache: %v", err)
	}

	// a second manager finds it on disk
	m2 := newSyncManager(t, cacheDir)
	m2.PrewarmDirectory([]string{src}, 128, 96)
	deadline := time.Now().Add(5 * time.Second)
	for m2.LoadMemoryOnly(src, 128, 96) == nil {
		if time.Now().After(deadline) {
			t.Fatal("Prewarm did not load the cached thumbnail")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestThumbnailManager_Unsupported(t *testing.T) {
	m := newSyncManager(t, "")
	if task := m.StartLoad("/tmp/readme.txt", 128, 96, func(image.Image, error) {
		t.Error("done must not be called for unsupported files")
	}); task != nil {
		t.Error("Expected nil task for an unsupported file")
	}
}

func TestThumbnailManager_DecodeError(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "broken.jpg")
	_ = os.WriteFile(src, []byte("not a jpeg"), 0644)

	m := newSyncManager(t, "")
	ch := make(chan thumbResult, 1)
	m.StartLoad(src, 128, 96, func(img image.Image, err error) {
		ch <- thumbResult{img, err}
	})
	if r := waitThumb(t, ch); r.err == nil {
		t.Error("Expected a decode error")
	}
}

func TestThumbnailManager_CancelledTaskIsSilent(t *testing.T) {
	m := &ThumbnailManager{deliver: func(fn func()) { fn() }}
	called := false
	task := &thumbnailTask{}
	task.Cancel()
	m.complete(thumbnailRequest{task: task, done: func(image.Image, error) { called = true }}, nil, nil)
	if called {
		t.Error("Cancelled tasks must not complete")
	}

	live := &thumbnailTask{}
	var got error
	m.complete(thumbnailRequest{task: live, done: func(_ image.Image, err error) { got = err }}, nil, ErrThumbnailDropped)
	if !errors.Is(got, ErrThumbnailDropped) {
		t.Errorf("Expected ErrThumbnailDropped, got %v", got)
	}
}

func TestThumbnailManager_Video_AspectRatio(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found")
	}

	tmpDir := t.TempDir()
	videoPath := filepath.Join(tmpDir, "test_video_16_9.mp4")

	// 1-second red video, 16:9
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "color=c=red:s=320x180:d=1",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-y", videoPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("failed to create video: %v, output: %s", err, out)
	}

	m := newSyncManager(t, "")
	ch := make(chan thumbResult, 1)
	m.StartLoad(videoPath, 128, 128, func(img image.Image, err error) {
		ch <- thumbResult{img, err}
	})

	r := waitThumb(t, ch)
	if r.err != nil || r.img == nil {
		t.Fatalf("Thumbnail generation failed: %v", r.err)
	}

	// aspect-fit, no letterboxing
	bounds := r.img.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 72 {
		t.Errorf("Expected 128x72 thumbnail, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	red, g, b, _ := r.img.At(bounds.Min.X+64, bounds.Min.Y+36).RGBA()
	if red < 50000 || g > 10000 || b > 10000 {
		t.Errorf("Expected red center, got R:%d G:%d B:%d", red, g, b)
	}
}

func TestMemoryKey_ChangesWithModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	before := memoryKey(path, 128, 96)
	if before != memoryKey(path, 128, 96) {
		t.Fatal("key should be stable for an unchanged file")
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if memoryKey(path, 128, 96) == before {
		t.Error("editing the file should change its memory cache key")
	}
}
