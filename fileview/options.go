package fileview

import (
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"
)

// Options configures an IconView.
type Options struct {
	SortMethod    SortMethod `yaml:"sort_method"`
	SortAscending bool       `yaml:"sort_ascending"`
	Layout        ViewLayout `yaml:"layout"`

	// RectangularSelection makes shift-selection cover the row/column
	// rectangle between two icons instead of the run of files between them.
	RectangularSelection bool `yaml:"rectangular_selection"`

	ShowFilenames bool   `yaml:"show_filenames"`
	ShowHidden    bool   `yaml:"show_hidden"`
	Filter        string `yaml:"filter"` // glob on file names, empty shows all

	Thumbnails     bool `yaml:"thumbnails"`
	ThumbMaxWidth  int  `yaml:"thumb_max_width"`
	ThumbMaxHeight int  `yaml:"thumb_max_height"`

	ReadAhead  bool   `yaml:"read_ahead"`
	ZoomLevel  int    `yaml:"zoom_level"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

func DefaultOptions() Options {
	return Options{
		SortMethod:     SortName,
		SortAscending:  true,
		Layout:         GridView,
		ShowFilenames:  true,
		Thumbnails:     true,
		ThumbMaxWidth:  128,
		ThumbMaxHeight: 96,
		ZoomLevel:      defaultZoomLevelIndex,
		FFmpegPath:     "ffmpeg",
	}
}

func (o *Options) normalize() {
	def := DefaultOptions()
	if o.Layout != ListView && o.Layout != GridView {
		o.Layout = def.Layout
	}
	if o.ThumbMaxWidth < 16 {
		o.ThumbMaxWidth = def.ThumbMaxWidth
	}
	if o.ThumbMaxHeight < 16 {
		o.ThumbMaxHeight = def.ThumbMaxHeight
	}
	o.ZoomLevel = clampZoomLevelIndex(o.ZoomLevel)
	if o.FFmpegPath == "" {
		o.FFmpegPath = def.FFmpegPath
	}
}

// LoadOptions reads options from application preferences, falling back to
// DefaultOptions for keys that were never stored.
func LoadOptions(p fyne.Preferences) Options {
	def := DefaultOptions()
	o := Options{
		SortMethod:           SortMethod(p.IntWithFallback(sortMethodKey, int(def.SortMethod))),
		SortAscending:        p.BoolWithFallback(sortAscendingKey, def.SortAscending),
		Layout:               ViewLayout(p.IntWithFallback(viewLayoutKey, int(def.Layout))),
		RectangularSelection: p.BoolWithFallback(rectSelectKey, def.RectangularSelection),
		ShowFilenames:        p.BoolWithFallback(showFilenamesKey, def.ShowFilenames),
		ShowHidden:           p.BoolWithFallback(showHiddenKey, def.ShowHidden),
		Filter:               p.StringWithFallback(filterKey, def.Filter),
		Thumbnails:           p.BoolWithFallback(thumbnailsKey, def.Thumbnails),
		ThumbMaxWidth:        p.IntWithFallback(thumbWidthKey, def.ThumbMaxWidth),
		ThumbMaxHeight:       p.IntWithFallback(thumbHeightKey, def.ThumbMaxHeight),
		ReadAhead:            p.BoolWithFallback(readAheadKey, def.ReadAhead),
		ZoomLevel:            p.IntWithFallback(zoomLevelKey, def.ZoomLevel),
		FFmpegPath:           p.StringWithFallback(ffmpegPathKey, def.FFmpegPath),
	}
	if o.SortMethod < SortName || o.SortMethod > SortTime {
		o.SortMethod = def.SortMethod
	}
	o.normalize()
	return o
}

// Save stores the options in application preferences.
func (o Options) Save(p fyne.Preferences) {
	p.SetInt(sortMethodKey, int(o.SortMethod))
	p.SetBool(sortAscendingKey, o.SortAscending)
	p.SetInt(viewLayoutKey, int(o.Layout))
	p.SetBool(rectSelectKey, o.RectangularSelection)
	p.SetBool(showFilenamesKey, o.ShowFilenames)
	p.SetBool(showHiddenKey, o.ShowHidden)
	p.SetString(filterKey, o.Filter)
	p.SetBool(thumbnailsKey, o.Thumbnails)
	p.SetInt(thumbWidthKey, o.ThumbMaxWidth)
	p.SetInt(thumbHeightKey, o.ThumbMaxHeight)
	p.SetBool(readAheadKey, o.ReadAhead)
	p.SetInt(zoomLevelKey, o.ZoomLevel)
	p.SetString(ffmpegPathKey, o.FFmpegPath)
}

// LoadOptionsFile merges a YAML file over DefaultOptions. A missing file is
// not an error.
func LoadOptionsFile(path string) (Options, error) {
	o := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return o, nil
		}
		return o, fmt.Errorf("reading options file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return DefaultOptions(), fmt.Errorf("parsing options file %s: %w", path, err)
	}
	o.normalize()
	return o, nil
}

// WriteOptionsFile stores o as YAML.
func WriteOptionsFile(path string, o Options) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing options file %s: %w", path, err)
	}
	return nil
}
