package fileview

import (
	"fmt"
	"path/filepath"
)

// SetDirectory switches the view to dir, dropping the selection and every
// entry of the previous directory.
func (v *IconView) SetDirectory(dir string) error {
	dir = filepath.Clean(dir)
	if dir == v.dir {
		return nil
	}
	v.dir = dir

	v.selectNone()
	v.thumbs.cleanup()
	v.freeEntries()
	v.fillRows()

	if v.watcher != nil {
		if err := v.watcher.Watch(dir); err != nil {
			log().Warn("watching directory failed", "dir", dir, "err", err)
		}
	}

	err := v.refresh(false)

	v.focus = nil
	v.focusRow, v.focusCol = 0, 0
	v.moveFocus(0, 0, false)
	return err
}

// Refresh reconciles the view with a fresh read of its directory. On a read
// error the current contents are kept.
func (v *IconView) Refresh() error {
	return v.refresh(true)
}

func (v *IconView) refresh(keepPosition bool) error {
	if v.lister == nil {
		return ErrNoLister
	}
	if v.dir == "" {
		return nil
	}

	focus := v.focus

	listing, err := v.lister.List(v.dir)
	if err != nil {
		log().Warn("reading directory failed", "dir", v.dir, "err", err)
		return fmt.Errorf("refreshing %s: %w", v.dir, err)
	}
	defer releaseFiles(listing)

	method, asc := v.opts.SortMethod, v.opts.SortAscending
	sortFiles(listing, method, asc)
	v.sortEntries()

	old := v.entries
	merged := make([]*Entry, 0, len(listing))
	// lastPath is the path of the last listed file taken into merged.
	var lastPath string
	i, j := 0, 0
	for i < len(old) || j < len(listing) {
		if j < len(listing) && listing[j].path == lastPath {
			log().Warn("duplicate path in listing", "path", listing[j].path)
			j++
			continue
		}
		switch {
		case i >= len(old):
			merged = append(merged, newEntry(listing[j]))
			lastPath = listing[j].path
			j++
		case j >= len(listing):
			v.dropEntry(old[i])
			i++
		case old[i].fd == listing[j]:
			old[i].dropStaleThumb()
			merged = append(merged, old[i])
			lastPath = listing[j].path
			i++
			j++
		default:
			c := compareFiles(old[i].fd, listing[j], method, asc)
			switch {
			case c < 0:
				v.dropEntry(old[i])
				i++
			case c > 0:
				merged = append(merged, newEntry(listing[j]))
				lastPath = listing[j].path
				j++
			default:
				log().Warn("duplicate path in listing", "path", listing[j].path)
				j++
			}
		}
	}
	v.entries = merged

	v.populate(true, keepPosition)

	// A surviving focus stays put without scrolling away from the kept position.
	if focus != nil && v.indexOf(focus) >= 0 {
		v.placeFocus(focus, !keepPosition)
	} else {
		v.updateFocus()
	}
	return nil
}

// dropEntry forgets every reference the view holds to e and releases it.
func (v *IconView) dropEntry(e *Entry) {
	if v.prevSelection == e {
		v.prevSelection = nil
	}
	if v.clickEntry == e {
		v.clickEntry = nil
	}
	if v.focus == e {
		v.focus = nil
	}
	if v.tipEntry == e {
		v.cancelTooltip()
	}
	v.setSelected(e, false)
	v.thumbs.detach(e)
	e.release()
}
