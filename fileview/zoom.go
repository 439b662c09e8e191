package fileview

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

func isZoomModifierActive() bool {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	if mods&fyne.KeyModifierControl != 0 {
		return true
	}
	// Command+scroll on macOS
	return mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomScrollOverlay turns ctrl+wheel into zoom steps. It is only visible, and
// so only receives scroll events, while the modifier is held.
type zoomScrollOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32
}

func newZoomScrollOverlay(onStep func(steps int)) *zoomScrollOverlay {
	z := &zoomScrollOverlay{onStep: onStep}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomScrollOverlay) Visible() bool {
	if !z.BaseWidget.Visible() {
		return false
	}
	return isZoomModifierActive()
}

func (z *zoomScrollOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}
	if math.IsNaN(float64(e.Scrolled.DY)) || math.IsInf(float64(e.Scrolled.DY), 0) {
		return
	}
	if steps := z.accumulate(e.Scrolled.DY); steps != 0 {
		z.onStep(steps)
	}
}

// accumulate converts wheel deltas into whole steps. A typical mouse notch
// is about 40; touchpads deliver many small deltas.
func (z *zoomScrollOverlay) accumulate(dy float32) int {
	const notch = float32(40)

	z.accDY += dy
	steps := 0
	for z.accDY >= notch {
		steps++
		z.accDY -= notch
	}
	for z.accDY <= -notch {
		steps--
		z.accDY += notch
	}
	return steps
}

func (z *zoomScrollOverlay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&fyne.Container{})
}

var _ fyne.Scrollable = (*zoomScrollOverlay)(nil)
