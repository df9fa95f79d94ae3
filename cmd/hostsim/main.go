// Command hostsim runs the datalogger controller on a development machine:
// a synthetic motion sensor, an in-memory volume and the terminal as the
// console. It exercises the full command set and state machine without
// hardware.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"datalogger-go/bus"
	"datalogger-go/services/config"
	"datalogger-go/services/ctrl"
	"datalogger-go/services/heartbeat"
	"datalogger-go/types"
)

const boardID = "hostsim"

func main() {
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, boardID)

	b := bus.NewBus(32)
	conn := b.NewConnection("hostsim")
	config.NewService().Start(ctx, conn)

	sections, _ := config.Load(boardID)
	cfg := config.Controller(sections)

	storage := ctrl.NewStorageManager()
	storage.AddVolume(cfg.Volume, newMemVolume())

	c := ctrl.New(cfg, ctrl.Deps{
		Storage: storage,
		Sensor:  &simSensor{t0: time.Now()},
		Clock:   &simClock{},
		Port:    newStdinConsole(),
		Lamp:    &printLamp{},
		Beeper:  &printBeeper{},
		Panel:   &hostPanel{},
		Conn:    conn,
	})

	hb := &heartbeat.Service{Samples: c.Engine().Count}
	_ = hb.Start(ctx, conn)

	c.Run(ctx)
}

// simSensor synthesises a slow roll oscillation with quiet gyro axes.
type simSensor struct{ t0 time.Time }

func (s *simSensor) ReadRaw() (types.RawSample, error) {
	el := time.Since(s.t0).Seconds()
	roll := 30 * math.Pi / 180 * math.Sin(el/3)
	return types.RawSample{
		AY: int16(16384 * math.Sin(roll)),
		AZ: int16(16384 * math.Cos(roll)),
		GX: int16(20 * math.Sin(el)),
	}, nil
}

// simClock mirrors the board's soft RTC.
type simClock struct{ offset time.Duration }

func (c *simClock) Now() time.Time { return time.Now().Add(c.offset) }

func (c *simClock) SetDateTime(t time.Time) error {
	c.offset = time.Until(t)
	return nil
}

type printLamp struct{ last types.LampColor }

func (l *printLamp) Set(c types.LampColor) {
	if c == l.last {
		return
	}
	l.last = c
	fmt.Printf("\r\n[lamp] green=%v blue=%v red=%v\r\n", c.Green, c.Blue, c.Red)
}

type printBeeper struct{}

func (printBeeper) Beep(d time.Duration) {
	fmt.Printf("[beep %dms]", d/time.Millisecond)
}

// hostPanel reports only state changes; the console already carries the rest.
type hostPanel struct {
	last types.SystemState
	seen bool
}

func (p *hostPanel) Render(s types.PanelSnapshot) error {
	if p.seen && s.State == p.last {
		return nil
	}
	p.last, p.seen = s.State, true
	fmt.Printf("\r\n[panel] %s mounted=%v samples=%d\r\n", s.State, s.Mounted, s.Samples)
	return nil
}

// stdinConsole adapts cooked terminal input to the non-blocking byte port.
// The terminal delivers '\n' on Enter; the interpreter ends lines on '\r'.
type stdinConsole struct{ rx chan byte }

func newStdinConsole() *stdinConsole {
	c := &stdinConsole{rx: make(chan byte, 256)}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(c.rx)
				return
			}
			if n == 1 {
				b := buf[0]
				if b == '\n' {
					b = '\r'
				}
				c.rx <- b
			}
		}
	}()
	return c
}

func (c *stdinConsole) ReadByte() (byte, bool) {
	select {
	case b, ok := <-c.rx:
		return b, ok
	default:
		return 0, false
	}
}

func (c *stdinConsole) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
