package fileview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// selectionOverlay draws a rubber band over its content while the pointer is
// dragged across it.
type selectionOverlay struct {
	widget.BaseWidget
	content fyne.CanvasObject

	rect *canvas.Rectangle

	startPos fyne.Position
	curPos   fyne.Position
	dragging bool

	onChanged func(start, cur fyne.Position)
	onEnd     func()
}

func newSelectionOverlay(content fyne.CanvasObject, onChanged func(start, cur fyne.Position), onEnd func()) *selectionOverlay {
	s := &selectionOverlay{
		content:   content,
		rect:      canvas.NewRectangle(color.Transparent),
		onChanged: onChanged,
		onEnd:     onEnd,
	}
	s.rect.StrokeColor = theme.Color(theme.ColorNamePrimary)
	s.rect.StrokeWidth = 2
	r, g, b, _ := theme.Color(theme.ColorNameFocus).RGBA()
	s.rect.FillColor = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}

	s.rect.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &selectionOverlayRenderer{s: s}
}

func (s *selectionOverlay) Dragged(e *fyne.DragEvent) {
	if !s.dragging {
		s.dragging = true
		s.startPos = e.Position.Subtract(e.Dragged)
		s.rect.Show()
	}

	s.curPos = e.Position
	s.refreshRect()

	if s.onChanged != nil {
		s.onChanged(s.startPos, s.curPos)
	}
}

func (s *selectionOverlay) DragEnd() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.rect.Hide()
	s.rect.Refresh()

	if s.onEnd != nil {
		s.onEnd()
	}
}

// setStartPos moves the anchor corner, used when the content scrolls under
// a drag in progress.
func (s *selectionOverlay) setStartPos(pos fyne.Position) {
	if !s.dragging || s.startPos == pos {
		return
	}
	s.startPos = pos
	s.refreshRect()
}

func (s *selectionOverlay) rectCoords() (tl, br fyne.Position) {
	tl = fyne.NewPos(min(s.startPos.X, s.curPos.X), min(s.startPos.Y, s.curPos.Y))
	br = fyne.NewPos(max(s.startPos.X, s.curPos.X), max(s.startPos.Y, s.curPos.Y))
	return tl, br
}

func (s *selectionOverlay) refreshRect() {
	tl, br := s.rectCoords()
	s.rect.Move(tl)
	s.rect.Resize(fyne.NewSize(br.X-tl.X, br.Y-tl.Y))
	s.rect.Refresh()
}

type selectionOverlayRenderer struct {
	s *selectionOverlay
}

func (r *selectionOverlayRenderer) Layout(size fyne.Size) {
	r.s.content.Resize(size)
	r.s.content.Move(fyne.NewPos(0, 0))
}

func (r *selectionOverlayRenderer) MinSize() fyne.Size {
	return r.s.content.MinSize()
}

func (r *selectionOverlayRenderer) Refresh() {
	r.s.content.Refresh()
	r.s.rect.Refresh()
}

func (r *selectionOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.s.content, r.s.rect}
}

func (r *selectionOverlayRenderer) Destroy() {}

var _ fyne.Draggable = (*selectionOverlay)(nil)
