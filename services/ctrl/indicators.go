package ctrl

import (
	"time"

	"datalogger-go/types"
)

// indicator is the lamp/chime projection of one state entry. States without
// a table row leave the lamp as-is and stay silent.
type indicator struct {
	lamp  types.LampColor
	chime types.Chime
}

// indicatorFor maps a state entry to its outputs. Pure function of the new
// state value; the controller applies it exactly once per transition.
func indicatorFor(s types.SystemState) (indicator, bool) {
	switch s {
	case types.StateInit: // amber while settling
		return indicator{lamp: types.LampColor{Green: true, Red: true}, chime: types.ChimeTwoShort}, true
	case types.StateNormal: // white, silent
		return indicator{lamp: types.LampColor{Green: true, Blue: true, Red: true}}, true
	case types.StateReading, types.StateListing:
		return indicator{lamp: types.LampColor{Blue: true}, chime: types.ChimeThreeShort}, true
	case types.StateCapture: // purple
		return indicator{lamp: types.LampColor{Blue: true, Red: true}, chime: types.ChimeOneLong}, true
	case types.StateCaptured:
		return indicator{lamp: types.LampColor{Green: true}, chime: types.ChimeShortLong}, true
	case types.StateError:
		return indicator{lamp: types.LampColor{Red: true}, chime: types.ChimeThreeLong}, true
	}
	return indicator{}, false
}

const (
	beepShort = 100 * time.Millisecond
	beepLong  = 300 * time.Millisecond
	beepInit  = 200 * time.Millisecond
)

// chimeBeeps expands a cadence class into its beep durations.
func chimeBeeps(c types.Chime) []time.Duration {
	switch c {
	case types.ChimeTwoShort:
		return []time.Duration{beepInit, beepInit}
	case types.ChimeThreeShort:
		return []time.Duration{beepShort, beepShort, beepShort}
	case types.ChimeOneLong:
		return []time.Duration{beepLong}
	case types.ChimeShortLong:
		return []time.Duration{beepShort, beepLong}
	case types.ChimeThreeLong:
		return []time.Duration{beepLong, beepLong, beepLong}
	}
	return nil
}
