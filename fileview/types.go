package fileview

import (
	"fmt"
	"strings"
	"time"
)

// ViewLayout selects how the pane arranges its files.
type ViewLayout int

const (
	defaultView ViewLayout = iota
	// ListView lists files in a single column
	ListView
	// GridView lists files in an icon grid
	GridView
)

// SortMethod is the key the file sequence is ordered by.
type SortMethod int

const (
	SortName SortMethod = iota
	SortSize
	SortTime
)

// MaxMarks is the number of mark bits carried by every file.
const MaxMarks = 6

const (
	fileIconSize       = 64
	fileInlineIconSize = 24

	thumbBorderPadding = 2
	thumbMinIconWidth  = 128
	thumbMaxIconWidth  = 150
	maxColumns         = 32

	tooltipDelay = 500 * time.Millisecond

	viewLayoutKey    = "fyne:fileViewLayout"
	sortMethodKey    = "fyne:fileViewSortMethod"
	sortAscendingKey = "fyne:fileViewSortAscending"
	showHiddenKey    = "fyne:fileViewShowHidden"
	showFilenamesKey = "fyne:fileViewShowFilenames"
	rectSelectKey    = "fyne:fileViewRectangularSelection"
	thumbnailsKey    = "fyne:fileViewThumbnails"
	thumbWidthKey    = "fyne:fileViewThumbMaxWidth"
	thumbHeightKey   = "fyne:fileViewThumbMaxHeight"
	readAheadKey     = "fyne:fileViewReadAhead"
	zoomLevelKey     = "fyne:fileViewZoomLevel"
	filterKey        = "fyne:fileViewFilter"
	ffmpegPathKey    = "fyne:fileViewFFmpegPath"
)

func (l ViewLayout) String() string {
	if l == ListView {
		return "list"
	}
	return "icons"
}

// ParseViewLayout accepts "list", "icons" or "grid".
func ParseViewLayout(s string) (ViewLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list":
		return ListView, nil
	case "icons", "icon", "grid", "":
		return GridView, nil
	}
	return defaultView, fmt.Errorf("unknown view layout %q", s)
}

func (l ViewLayout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *ViewLayout) UnmarshalText(b []byte) error {
	v, err := ParseViewLayout(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (m SortMethod) String() string {
	switch m {
	case SortSize:
		return "size"
	case SortTime:
		return "time"
	default:
		return "name"
	}
}

// ParseSortMethod accepts "name", "size", "time" or "date".
func ParseSortMethod(s string) (SortMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "":
		return SortName, nil
	case "size":
		return SortSize, nil
	case "time", "date":
		return SortTime, nil
	}
	return SortName, fmt.Errorf("unknown sort method %q", s)
}

func (m SortMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SortMethod) UnmarshalText(b []byte) error {
	v, err := ParseSortMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarkToSelectionMode combines a mark bit with the current selection.
type MarkToSelectionMode int

const (
	MarkSet   MarkToSelectionMode = iota // selected = mark
	MarkOr                               // selected = mark || selected
	MarkAnd                              // selected = mark && selected
	MarkMinus                            // selected = !mark && selected
)

// SelectionToMarkMode writes the selection into a mark bit.
type SelectionToMarkMode int

const (
	MarkApplySet SelectionToMarkMode = iota
	MarkApplyReset
	MarkApplyToggle
)

func checkMark(mark int) {
	if mark < 1 || mark > MaxMarks {
		panic(fmt.Sprintf("fileview: mark %d out of range 1..%d", mark, MaxMarks))
	}
}
