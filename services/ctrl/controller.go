package ctrl

import (
	"context"
	"time"

	"datalogger-go/bus"
	"datalogger-go/errcode"
	"datalogger-go/types"
	"datalogger-go/x/strconvx"
	"datalogger-go/x/timex"
)

// Bus topics the controller publishes on (retained).
var (
	topicState    = bus.T("ctrl", "state")
	topicAttitude = bus.T("ctrl", "attitude")
	topicCapture  = bus.T("capture", "stats")
)

// Panel is the presentation adapter boundary.
type Panel interface {
	Render(types.PanelSnapshot) error
}

// Deps are the collaborators injected at construction.
type Deps struct {
	Storage *StorageManager
	Sensor  Sensor
	Clock   Clock
	Port    ConsolePort
	Lamp    Lamp
	Beeper  Beeper
	Panel   Panel
	Conn    *bus.Connection
}

// Controller is the single source of truth for the device's current mode.
// It owns all mutable state; every entry point takes it by pointer and no
// package-level state exists.
type Controller struct {
	cfg types.SystemConfig

	state   types.SystemState
	deb     *Debouncer
	interp  *Interpreter
	storage *StorageManager
	engine  *Engine

	sensor Sensor
	clock  Clock
	port   ConsolePort
	lamp   Lamp
	beeper Beeper
	panel  Panel
	conn   *bus.Connection

	raw      types.RawSample
	att      types.Attitude
	panelDue time.Time
}

// New wires a controller. The capture engine logs to the default volume.
func New(cfg types.SystemConfig, d Deps) *Controller {
	cfg.ApplyDefaults()

	var fs Filesystem
	if v := d.Storage.Default(); v != nil {
		fs = v.FS()
	}
	c := &Controller{
		cfg:     cfg,
		state:   types.StateInit,
		deb:     NewDebouncer(timex.Ms(cfg.DebounceMs)),
		storage: d.Storage,
		engine:  NewEngine(fs, cfg.CaptureFile, timex.Ms(cfg.SamplePeriodMs), cfg.SyncEvery),
		sensor:  d.Sensor,
		clock:   d.Clock,
		port:    d.Port,
		lamp:    d.Lamp,
		beeper:  d.Beeper,
		panel:   d.Panel,
		conn:    d.Conn,
	}
	c.interp = NewInterpreter(d.Port, commandTable())
	return c
}

// State returns the current mode.
func (c *Controller) State() types.SystemState { return c.state }

// Debounce exposes the debouncer so the binary can route button interrupts.
func (c *Controller) Debounce() *Debouncer { return c.deb }

// Engine exposes the capture engine (observability).
func (c *Controller) Engine() *Engine { return c.engine }

// Run drives the cooperative loop until ctx is cancelled. The engine and
// panel cadences are gated by their own due-times, so the tick just has to
// be comfortably faster than both.
func (c *Controller) Run(ctx context.Context) {
	c.Startup()
	select {
	case <-ctx.Done():
		return
	case <-time.After(timex.Ms(c.cfg.StartupSettleMs)):
	}
	c.Begin(time.Now())

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			c.Step(now)
		}
	}
}

// Startup applies the Init indicators and announces the initial state.
func (c *Controller) Startup() {
	c.applyIndicators(types.StateInit)
	c.publishState(types.StateInit, types.StateInit)
}

// Begin leaves Init for Normal and greets the console.
func (c *Controller) Begin(now time.Time) {
	c.setState(types.StateNormal)
	c.print("\x1b[2J\x1b[H")
	c.print("IMU datalogger console\n\n> ")
	c.printHelp()
	c.panelDue = now
}

// Step is one loop iteration: reconcile button intent, drain the console,
// poll the sensor (ticking the engine when due) and refresh the panel.
func (c *Controller) Step(now time.Time) {
	c.reconcile(now)
	c.drainConsole(now)
	c.pollSensor(now)
	c.renderPanel(now)
}

// ---- reconciliation ----

func (c *Controller) reconcile(now time.Time) {
	// Mount reconciliation runs strictly before capture reconciliation, so
	// a capture request raised in the same tick observes the post-mount
	// state.
	if v := c.storage.Default(); v != nil {
		if want := c.deb.Read(ControlMount); want != v.Mounted {
			c.doMount(want)
		}
	}
	if want := c.deb.Read(ControlCapture); want != c.engine.Active() {
		c.doCapture(want, now)
	}
}

func (c *Controller) doMount(want bool) {
	v := c.storage.Default()
	if v == nil {
		return
	}
	if want {
		c.setState(types.StateMounting)
		c.print("\nMounting SD...\n")
		if err := c.storage.Mount(""); err != nil {
			c.reportStorage("mount", v.Name, err)
			c.setState(types.StateError)
			c.deb.SetToggle(ControlMount, false) // stop retrying
		} else {
			c.print("SD ( ", v.Name, " ) mounted\n")
			c.setState(types.StateNormal)
			c.deb.SetToggle(ControlMount, true)
		}
	} else {
		c.setState(types.StateUnmounting)
		c.print("\nUnmounting SD. Wait...\n")
		if err := c.storage.Unmount(""); err != nil {
			c.reportStorage("unmount", v.Name, err)
			c.setState(types.StateError)
			c.deb.SetToggle(ControlMount, true) // mounted flag unchanged
		} else {
			c.print("SD ( ", v.Name, " ) unmounted\n")
			c.setState(types.StateNormal)
			c.deb.SetToggle(ControlMount, false)
		}
	}
	c.prompt()
}

func (c *Controller) doCapture(want bool, now time.Time) {
	if want {
		c.setState(types.StateCapture)
		if err := c.engine.Start(now); err != nil {
			if errcode.Of(err) == errcode.AlreadyActive {
				c.print("Capture already active\n")
			} else {
				c.print("Could not create the capture file. Check that the card is mounted.\n")
			}
			c.setState(types.StateError)
			c.deb.SetToggle(ControlCapture, false)
		} else {
			c.print("Capture started (10 Hz) to ", c.engine.Filename(), "\n")
			c.print("Press 'i' to stop.\n")
			c.deb.SetToggle(ControlCapture, true)
			c.publishCapture(true)
		}
	} else {
		n, err := c.engine.Stop()
		if err != nil {
			c.print("Capture is not active\n")
			c.setState(types.StateError)
		} else {
			c.setState(types.StateCaptured)
			c.print("Capture finished. Samples: ", strconvx.Utoa(n), "\n")
			c.print("Saved to: ", c.engine.Filename(), "\n")
			c.publishCapture(false)
		}
		c.deb.SetToggle(ControlCapture, false)
	}
	c.prompt()
}

// ---- console ----

func (c *Controller) drainConsole(now time.Time) {
	for {
		b, ok := c.port.ReadByte()
		if !ok {
			return
		}
		d := c.interp.Feed(b)
		if d == nil {
			continue
		}
		// A completed single-letter line is a menu shortcut; longer
		// lines go through the command table. Keying shortcuts off whole
		// lines keeps 'c', 'f', 'g' and 'h' usable as the first letter
		// of cat, format, getfree and help.
		if len(d.Unknown) == 1 && c.shortcut(d.Unknown[0], now) {
			continue
		}
		c.dispatch(d)
	}
}

func (c *Controller) dispatch(d *Dispatch) {
	if d.Unknown != "" {
		c.print("Command \"", d.Unknown, "\" not found\n")
	} else if err := d.Cmd.Run(c, d.Args); err != nil {
		c.fail(err)
	}
	c.print("\n> ")
}

func (c *Controller) shortcut(b byte, now time.Time) bool {
	switch b {
	case 'a':
		c.doMount(true)
	case 'b':
		c.doMount(false)
	case 'c':
		c.setState(types.StateListing)
		c.print("\nListing files on the SD card.\n")
		if err := runLs(c, nil); err != nil {
			c.fail(err)
		} else {
			c.print("\nListing done.\n")
		}
		c.prompt()
	case 'd':
		c.setState(types.StateReading)
		if err := c.readFile(c.engine.Filename()); err != nil {
			c.fail(err)
		}
		c.prompt()
	case 'e':
		c.setState(types.StateFreeSpace)
		c.print("\nQuerying free space.\n\n")
		if err := runGetFree(c, nil); err != nil {
			c.fail(err)
		}
		c.prompt()
	case 'f':
		c.setState(types.StateFormat)
		c.print("\nFormatting SD. Wait...\n")
		if err := runFormat(c, nil); err != nil {
			c.fail(err)
		} else {
			c.print("\nFormat done.\n")
		}
		c.prompt()
	case 'g':
		c.setState(types.StateHelp)
		c.printHelp()
	case 'h':
		c.doCapture(true, now)
	case 'i':
		c.doCapture(false, now)
	default:
		return false
	}
	return true
}

// fail maps a handler error to the Error state where warranted. Errors a
// user can correct by retyping stay local to the console.
func (c *Controller) fail(err error) {
	switch errcode.Of(err) {
	case errcode.DeviceError, errcode.UnknownVolume:
		c.setState(types.StateError)
	}
}

// ---- sampling ----

func (c *Controller) pollSensor(now time.Time) {
	if raw, err := c.sensor.ReadRaw(); err == nil {
		c.raw = raw
		c.att = AttitudeOf(raw)
	}
	if !c.engine.Due(now) {
		return
	}
	synced, err := c.engine.Tick(now, c.raw, c.att)
	if err != nil {
		// The engine already closed the file and went Idle.
		c.print("Write failed; capture stopped.\n")
		c.printStorageHint(err)
		c.setState(types.StateError)
		c.deb.SetToggle(ControlCapture, false)
		c.publishCapture(false)
		return
	}
	if synced {
		c.print("Saved ", strconvx.Utoa(c.engine.Count()), " samples...\n")
		c.publishCapture(true)
	}
}

// ---- panel ----

func (c *Controller) renderPanel(now time.Time) {
	if now.Before(c.panelDue) {
		return
	}
	c.panelDue = now.Add(timex.Ms(c.cfg.PanelPeriodMs))

	mounted := false
	if v := c.storage.Default(); v != nil {
		mounted = v.Mounted
	}
	if c.panel != nil {
		_ = c.panel.Render(types.PanelSnapshot{
			State:   c.state,
			Mounted: mounted,
			Roll:    c.att.Roll,
			Pitch:   c.att.Pitch,
			Samples: c.engine.Count(),
			File:    c.engine.Filename(),
		})
	}
	if c.conn != nil {
		c.conn.Publish(c.conn.NewMessage(topicAttitude, c.att, true))
	}
}

// ---- transitions & output ----

func (c *Controller) setState(s types.SystemState) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	c.publishState(from, s)
	c.applyIndicators(s)
}

// applyIndicators re-derives lamp and chime for a state entry. Edge
// triggered: called once per transition, never polled.
func (c *Controller) applyIndicators(s types.SystemState) {
	ind, ok := indicatorFor(s)
	if !ok {
		return
	}
	if c.lamp != nil {
		c.lamp.Set(ind.lamp)
	}
	if c.beeper != nil {
		for _, d := range chimeBeeps(ind.chime) {
			c.beeper.Beep(d)
		}
	}
}

func (c *Controller) publishState(from, to types.SystemState) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicState,
		types.StateChange{From: from, To: to, TSMs: timex.NowMs()}, true))
}

func (c *Controller) publishCapture(active bool) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(topicCapture, types.CaptureStats{
		File:    c.engine.Filename(),
		Samples: c.engine.Count(),
		Active:  active,
	}, true))
}

func (c *Controller) print(parts ...string) {
	for _, p := range parts {
		_, _ = c.port.Write([]byte(p))
	}
}

func (c *Controller) prompt() {
	c.print("\nChoose a command (g = help):  ")
}

func (c *Controller) printHelp() {
	c.print("\nAvailable commands:\n\n")
	c.print("Press 'a' to mount the SD card\n")
	c.print("Press 'b' to unmount the SD card\n")
	c.print("Press 'c' to list files\n")
	c.print("Press 'd' to show the capture file\n")
	c.print("Press 'e' to report free space\n")
	c.print("Press 'f' to format the SD card\n")
	c.print("Press 'g' to show this help\n")
	c.print("Press 'h' to START continuous capture\n")
	c.print("Press 'i' to STOP continuous capture\n")
	for _, cmd := range c.interp.Table() {
		c.print(cmd.Help, "\n")
	}
	c.print("\nChoose a command:  ")
}
