package fileview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither a known
	// image nor a known video type.
	ErrUnsupportedFormat = errors.New("unsupported thumbnail format")
	// ErrThumbnailDropped is delivered to requests pushed out of a full queue.
	ErrThumbnailDropped = errors.New("thumbnail request dropped")
)

var (
	MaxCacheSize  int64 = 500 * 1024 * 1024 // 500MB
	MaxCacheFiles int   = 10000
)

const maxQueuedThumbnails = 100

var durationRE = regexp.MustCompile(`Duration: (\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

type thumbnailRequest struct {
	path       string
	maxW, maxH int
	task       *thumbnailTask
	done       func(image.Image, error)
}

type thumbnailTask struct {
	cancelled atomic.Bool
}

func (t *thumbnailTask) Cancel() { t.cancelled.Store(true) }

// ThumbnailManager decodes and scales thumbnails on a small worker pool,
// keeping them in memory and in a disk cache. The most recent request is
// served first.
type ThumbnailManager struct {
	cache    sync.Map // map[string]image.Image
	requests []thumbnailRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond

	ffmpegMu   sync.RWMutex
	ffmpegPath string
	cacheDir   string

	// deliver runs completions on the UI goroutine.
	deliver func(func())
}

var (
	instance *ThumbnailManager
	once     sync.Once
)

// GetThumbnailManager returns the shared manager, caching under the user
// cache directory.
func GetThumbnailManager() *ThumbnailManager {
	once.Do(func() {
		ffmpeg := "ffmpeg"
		if app := fyne.CurrentApp(); app != nil {
			if pref := app.Preferences().String(ffmpegPathKey); pref != "" {
				ffmpeg = pref
			}
		}
		cacheDir := ""
		if userCache, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(userCache, "xfileview")
		}
		instance = NewThumbnailManager(cacheDir, ffmpeg, 4)
	})
	return instance
}

// NewThumbnailManager starts workers goroutines. An empty cacheDir disables
// the disk cache.
func NewThumbnailManager(cacheDir, ffmpegPath string, workers int) *ThumbnailManager {
	m := &ThumbnailManager{
		requests:   make([]thumbnailRequest, 0, maxQueuedThumbnails),
		ffmpegPath: ffmpegPath,
		cacheDir:   cacheDir,
		deliver:    fyne.Do,
	}
	m.reqCond = sync.NewCond(&m.reqLock)

	if m.cacheDir != "" {
		if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
			log().Warn("thumbnail cache disabled", "dir", m.cacheDir, "err", err)
			m.cacheDir = ""
		} else {
			go m.cleanupCache()
		}
	}

	for range max(workers, 1) {
		go m.worker()
	}
	return m
}

func (m *ThumbnailManager) SetFFmpegPath(path string) {
	m.ffmpegMu.Lock()
	m.ffmpegPath = path
	m.ffmpegMu.Unlock()
	if app := fyne.CurrentApp(); app != nil {
		app.Preferences().SetString(ffmpegPathKey, path)
	}
}

func (m *ThumbnailManager) ffmpeg() string {
	m.ffmpegMu.RLock()
	defer m.ffmpegMu.RUnlock()
	return m.ffmpegPath
}

// memoryKey includes the modification time so an edited file misses the
// memory cache.
func memoryKey(path string, maxW, maxH int) string {
	var mod int64
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime().UnixNano()
	}
	return fmt.Sprintf("%s@%dx%d@%d", path, maxW, maxH, mod)
}

// LoadMemoryOnly returns a thumbnail already held in memory, or nil.
func (m *ThumbnailManager) LoadMemoryOnly(path string, maxW, maxH int) image.Image {
	if cached, ok := m.cache.Load(memoryKey(path, maxW, maxH)); ok {
		return cached.(image.Image)
	}
	return nil
}

// StartLoad queues a thumbnail for path. Unsupported files return nil.
func (m *ThumbnailManager) StartLoad(path string, maxW, maxH int, done func(image.Image, error)) ThumbnailTask {
	ext := strings.ToLower(filepath.Ext(path))
	if !isSupportedImage(ext) && !isSupportedVideo(ext) {
		return nil
	}

	task := &thumbnailTask{}
	if img := m.LoadMemoryOnly(path, maxW, maxH); img != nil {
		go m.complete(thumbnailRequest{path: path, task: task, done: done}, img, nil)
		return task
	}

	req := thumbnailRequest{path: path, maxW: maxW, maxH: maxH, task: task, done: done}

	m.reqLock.Lock()
	if len(m.requests) >= maxQueuedThumbnails {
		dropped := m.requests[0]
		m.requests = m.requests[1:]
		go m.complete(dropped, nil, ErrThumbnailDropped)
	}
	m.requests = append(m.requests, req)
	m.reqCond.Signal()
	m.reqLock.Unlock()
	return task
}

func (m *ThumbnailManager) complete(req thumbnailRequest, img image.Image, err error) {
	m.deliver(func() {
		if req.task.cancelled.Load() {
			return
		}
		req.done(img, err)
	})
}

// PrewarmDirectory loads disk cached thumbnails for paths into memory in the
// background.
func (m *ThumbnailManager) PrewarmDirectory(paths []string, maxW, maxH int) {
	if m.cacheDir == "" {
		return
	}

	go func() {
		for _, path := range paths {
			if m.LoadMemoryOnly(path, maxW, maxH) != nil {
				continue
			}
			key, err := m.generateCacheKey(path, maxW, maxH)
			if err != nil {
				continue
			}
			if img, err := loadImage(filepath.Join(m.cacheDir, key+".jpg")); err == nil {
				m.cache.Store(memoryKey(path, maxW, maxH), img)
			}
			// Small sleep to avoid I/O spikes
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (m *ThumbnailManager) worker() {
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 {
			m.reqCond.Wait()
		}
		// LIFO
		last := len(m.requests) - 1
		req := m.requests[last]
		m.requests = m.requests[:last]
		m.reqLock.Unlock()

		if req.task.cancelled.Load() {
			continue
		}
		img, err := m.generate(req.path, req.maxW, req.maxH)
		m.complete(req, img, err)
	}
}

// generate produces the thumbnail for path from memory, the disk cache or
// the source file, in that order.
func (m *ThumbnailManager) generate(path string, maxW, maxH int) (image.Image, error) {
	mkey := memoryKey(path, maxW, maxH)
	if cached, ok := m.cache.Load(mkey); ok {
		return cached.(image.Image), nil
	}

	var diskPath string
	if m.cacheDir != "" {
		if key, err := m.generateCacheKey(path, maxW, maxH); err == nil {
			diskPath = filepath.Join(m.cacheDir, key+".jpg")
			if img, err := loadImage(diskPath); err == nil {
				m.cache.Store(mkey, img)
				return img, nil
			}
		}
	}

	var src image.Image
	var err error
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case isSupportedImage(ext):
		src, err = loadImage(path)
	case isSupportedVideo(ext):
		src, err = m.generateVideoThumbnail(path)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	dst := scaleToFit(src, maxW, maxH)
	if dst == nil {
		return nil, fmt.Errorf("loading %s: empty image", path)
	}
	m.cache.Store(mkey, dst)

	if diskPath != "" {
		if err := writeJPEG(diskPath, dst); err != nil {
			log().Debug("thumbnail cache write failed", "path", diskPath, "err", err)
		}
	}
	return dst, nil
}

// scaleToFit shrinks img to fit within maxW by maxH keeping its aspect
// ratio. Images that already fit are returned unchanged.
func scaleToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	sw := max(int(float64(w)*scale), 1)
	sh := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, sw, sh))
	// ApproxBiLinear for speed
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func (m *ThumbnailManager) generateVideoThumbnail(path string) (image.Image, error) {
	duration, err := m.getVideoDuration(path)
	if err != nil {
		duration = time.Second
	}

	seek := duration / 2
	seekStr := fmt.Sprintf("%02d:%02d:%02d.%03d",
		int(seek.Hours()),
		int(seek.Minutes())%60,
		int(seek.Seconds())%60,
		seek.Milliseconds()%1000)

	// Input seeking (-ss before -i) is less accurate but much faster.
	cmd := exec.Command(m.ffmpeg(), "-ss", seekStr, "-i", path, "-vframes", "1", "-f", "image2", "-strict", "unofficial", "-")
	applyHiddenWindow(cmd)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	img, _, err := image.Decode(&buf)
	return img, err
}

func (m *ThumbnailManager) getVideoDuration(path string) (time.Duration, error) {
	cmd := exec.Command(m.ffmpeg(), "-i", path)
	applyHiddenWindow(cmd)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// ffmpeg exits non-zero without an output file but still prints the info
	_ = cmd.Run()

	return parseDuration(stderr.String())
}

func parseDuration(out string) (time.Duration, error) {
	matches := durationRE.FindStringSubmatch(out)
	if len(matches) < 5 {
		return 0, errors.New("could not find duration in output")
	}

	var parts [4]int
	for i := range parts {
		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return 0, err
		}
		parts[i] = n
	}

	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3]*10)*time.Millisecond, nil
}

func isSupportedImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

func isSupportedVideo(ext string) bool {
	switch ext {
	case ".mp4", ".mkv", ".avi", ".webm", ".mov":
		return true
	}
	return false
}

// generateCacheKey hashes the path, modification time, size, the first 32KB
// of content and the requested bounds.
func (m *ThumbnailManager) generateCacheKey(path string, maxW, maxH int) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := xxhash.New()
	_, _ = h.WriteString(absPath)
	_, _ = h.WriteString(info.ModTime().String())
	_, _ = fmt.Fprintf(h, "%d:%dx%d", info.Size(), maxW, maxH)

	if f, err := os.Open(absPath); err == nil {
		defer f.Close()
		_, _ = io.CopyN(h, f, 32*1024)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func (m *ThumbnailManager) cleanupCache() {
	if m.cacheDir == "" {
		return
	}

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= MaxCacheSize && len(cachedFiles) <= MaxCacheFiles {
		return
	}

	// Oldest first
	slices.SortFunc(cachedFiles, func(a, b fileInfo) int {
		return a.time.Compare(b.time)
	})

	removed := 0
	for _, f := range cachedFiles {
		if totalSize <= int64(float64(MaxCacheSize)*0.8) && len(cachedFiles)-removed <= int(float64(MaxCacheFiles)*0.8) {
			break
		}
		_ = os.Remove(filepath.Join(m.cacheDir, f.name))
		totalSize -= f.size
		removed++
	}
	log().Debug("thumbnail cache trimmed", "removed", removed, "bytes", totalSize)
}
