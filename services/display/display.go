// Package display renders controller panel snapshots onto a small
// monochrome OLED. All drawing goes through drivers.Displayer, so the
// tests and the host simulator substitute a framebuffer fake for the
// real ssd1306.
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"

	"datalogger-go/types"
	"datalogger-go/x/mathx"
	"datalogger-go/x/strconvx"
)

var (
	colOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colOff = color.RGBA{A: 0xFF}
)

const (
	headerH = 9
	lineH   = 10
)

// Renderer draws one template per controller state. It keeps no state of
// its own; every frame is a pure function of the snapshot.
type Renderer struct {
	disp drivers.Displayer
	font tinyfont.Fonter
	w, h int16
}

func New(disp drivers.Displayer) *Renderer {
	w, h := disp.Size()
	return &Renderer{disp: disp, font: &tinyfont.TomThumb, w: w, h: h}
}

// Render draws the snapshot and flushes the frame to the device.
func (r *Renderer) Render(s types.PanelSnapshot) error {
	_ = tinydraw.FilledRectangle(r.disp, 0, 0, r.w, r.h, colOff)
	r.header(s)

	switch s.State {
	case types.StateInit:
		r.text(2, line(1), "starting...")
	case types.StateMounting, types.StateUnmounting:
		r.text(2, line(1), "SD busy...")
	case types.StateCapture:
		r.text(2, line(1), "REC "+s.File)
		r.text(2, line(2), "n="+strconvx.Utoa(s.Samples))
		r.attitude(line(3), s)
	case types.StateCaptured:
		r.text(2, line(1), "capture done")
		r.text(2, line(2), "samples: "+strconvx.Utoa(s.Samples))
	case types.StateError:
		r.text(2, line(1), "! ERROR !")
		r.text(2, line(2), "g = help")
	case types.StateReading, types.StateListing,
		types.StateFreeSpace, types.StateFormat, types.StateHelp:
		r.text(2, line(1), "see console")
	default:
		r.attitude(line(1), s)
		r.rollBar(s.Roll)
	}
	return r.disp.Display()
}

// header is an inverted title bar with an SD marker on the right edge.
func (r *Renderer) header(s types.PanelSnapshot) {
	_ = tinydraw.FilledRectangle(r.disp, 0, 0, r.w, headerH, colOn)
	tinyfont.WriteLine(r.disp, r.font, 2, headerH-2, title(s.State), colOff)
	if s.Mounted {
		tinyfont.WriteLine(r.disp, r.font, r.w-10, headerH-2, "SD", colOff)
	}
}

func (r *Renderer) attitude(y int16, s types.PanelSnapshot) {
	r.text(2, y,
		"R "+strconvx.FormatFixed(s.Roll, 1)+" P "+strconvx.FormatFixed(s.Pitch, 1))
}

// rollBar is a horizon line with a needle deflected by the clamped roll.
func (r *Renderer) rollBar(roll float64) {
	y := r.h - 6
	tinydraw.Line(r.disp, 4, y, r.w-4, y, colOn)

	mid := r.w / 2
	span := float64(mid - 6)
	off := int16(mathx.Clamp(roll, -90, 90) / 90 * span)
	tinydraw.Line(r.disp, mid, y, mid+off, y-4, colOn)
	_ = tinydraw.Rectangle(r.disp, mid-1, y-1, 3, 3, colOn)
}

func (r *Renderer) text(x, y int16, s string) {
	tinyfont.WriteLine(r.disp, r.font, x, y, s, colOn)
}

// line converts a 1-based body row to its text baseline.
func line(i int) int16 { return int16(headerH + i*lineH) }

func title(s types.SystemState) string {
	switch s {
	case types.StateInit:
		return "INIT"
	case types.StateMounting:
		return "MOUNT"
	case types.StateUnmounting:
		return "UNMOUNT"
	case types.StateReading:
		return "READ"
	case types.StateListing:
		return "LIST"
	case types.StateCapture:
		return "CAPTURE"
	case types.StateCaptured:
		return "DONE"
	case types.StateError:
		return "ERROR"
	case types.StateHelp:
		return "HELP"
	case types.StateFreeSpace:
		return "FREE"
	case types.StateFormat:
		return "FORMAT"
	}
	return "IMU LOG"
}
