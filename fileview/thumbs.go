package fileview

import "image"

// ThumbnailLoader produces thumbnails in the background. done must be called
// exactly once on the UI goroutine unless the task is cancelled first.
type ThumbnailLoader interface {
	// StartLoad returns nil when no load could be started for path.
	StartLoad(path string, maxW, maxH int, done func(image.Image, error)) ThumbnailTask
}

type ThumbnailTask interface {
	Cancel()
}

// thumbQueue loads one thumbnail at a time for the view, visible rows first.
type thumbQueue struct {
	view *IconView

	count      int
	running    bool
	task       ThumbnailTask
	entry      *Entry
	generation int
	ticket     int
}

func (q *thumbQueue) status(progress float64, text string) {
	if q.view.thumbStatus != nil {
		q.view.thumbStatus(progress, text)
	}
}

func (q *thumbQueue) cleanup() {
	if q.task != nil {
		q.task.Cancel()
		q.task = nil
	}
	q.ticket++
	q.entry = nil
	q.count = 0
	q.running = false
	q.status(0, "")
}

// restart cancels the current load and starts a new generation, which also
// retries entries whose previous attempt failed.
func (q *thumbQueue) restart() {
	q.cleanup()
	q.generation++
	v := q.view
	if !v.opts.Thumbnails || v.loader == nil || v.destroyed {
		return
	}
	q.running = true
	q.next()
}

// detach forgets e if it is being loaded; the pending result is discarded
// and the queue moves on when it arrives.
func (q *thumbQueue) detach(e *Entry) {
	if q.entry == e {
		q.entry = nil
	}
	if q.count > 0 {
		q.count--
	}
}

func (q *thumbQueue) pending(e *Entry) bool {
	return e != nil && e.thumb == nil && e.thumbGen != q.generation
}

// pick prefers the visible rows and falls back to sequence order.
func (q *thumbQueue) pick() *Entry {
	v := q.view
	if v.viewport != nil {
		if first := v.viewport.FirstVisibleRow(); first >= 0 {
			last := min(first+v.viewport.VisibleRowCount(), len(v.rows)-1)
			for r := first; r <= last; r++ {
				for _, e := range v.rows[r] {
					if q.pending(e) {
						return e
					}
				}
			}
		}
	}
	for _, e := range v.entries {
		if q.pending(e) {
			return e
		}
	}
	return nil
}

func (q *thumbQueue) next() {
	v := q.view
	for q.running {
		e := q.pick()
		if e == nil {
			q.running = false
			q.task = nil
			q.entry = nil
			q.status(1, "")
			return
		}

		e.thumbGen = q.generation
		q.count++
		q.entry = e
		q.ticket++
		ticket := q.ticket

		if n := len(v.entries); n > 0 {
			q.status(float64(q.count)/float64(n), "Loading thumbs...")
		}

		task := v.loader.StartLoad(e.fd.path, v.opts.ThumbMaxWidth, v.opts.ThumbMaxHeight, func(img image.Image, err error) {
			q.done(ticket, img, err)
		})
		if task == nil {
			q.entry = nil
			continue
		}
		if ticket == q.ticket {
			q.task = task
		}
		return
	}
}

func (q *thumbQueue) done(ticket int, img image.Image, err error) {
	if ticket != q.ticket || !q.running {
		return
	}
	q.task = nil
	if e := q.entry; e != nil {
		if err != nil {
			log().Warn("thumbnail failed", "path", e.fd.path, "err", err)
		} else if img != nil {
			e.thumb = img
			e.thumbMod = e.fd.modTime
			q.view.refreshEntryRow(e)
		}
	}
	q.entry = nil
	q.next()
}
