//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"datalogger-go/drivers/mpu6050"
	"datalogger-go/types"
)

// Pin map (Maker Pi Pico wiring).
const (
	pinIMUSDA = machine.GP0
	pinIMUSCL = machine.GP1

	pinBtnCapture = machine.GP5
	pinBtnMount   = machine.GP6

	pinUARTTX = machine.GP8
	pinUARTRX = machine.GP9

	pinLEDGreen = machine.GP11
	pinLEDBlue  = machine.GP12
	pinLEDRed   = machine.GP13

	pinOLEDSDA = machine.GP14
	pinOLEDSCL = machine.GP15

	pinSDMISO = machine.GP16
	pinSDCS   = machine.GP17
	pinSDSCK  = machine.GP18
	pinSDMOSI = machine.GP19

	pinBuzzer = machine.GP21
)

// -----------------------------------------------------------------------------
// Lamp
// -----------------------------------------------------------------------------

type rgbLamp struct{ g, b, r machine.Pin }

func newRGBLamp() *rgbLamp {
	l := &rgbLamp{g: pinLEDGreen, b: pinLEDBlue, r: pinLEDRed}
	for _, p := range []machine.Pin{l.g, l.b, l.r} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return l
}

func (l *rgbLamp) Set(c types.LampColor) {
	l.g.Set(c.Green)
	l.b.Set(c.Blue)
	l.r.Set(c.Red)
}

// -----------------------------------------------------------------------------
// Buzzer
// -----------------------------------------------------------------------------

type buzzer struct{ p machine.Pin }

func newBuzzer() *buzzer {
	b := &buzzer{p: pinBuzzer}
	b.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b.p.Low()
	return b
}

// Beep drives the piezo for d and leaves a gap before the next beep.
func (b *buzzer) Beep(d time.Duration) {
	b.p.High()
	time.Sleep(d)
	b.p.Low()
	time.Sleep(100 * time.Millisecond)
}

// -----------------------------------------------------------------------------
// Clock
// -----------------------------------------------------------------------------

// softClock is a settable wall clock over the monotonic timer. It does not
// survive a power cycle; setrtc after every boot.
type softClock struct{ offset time.Duration }

func (c *softClock) Now() time.Time { return time.Now().Add(c.offset) }

func (c *softClock) SetDateTime(t time.Time) error {
	c.offset = time.Until(t)
	return nil
}

// -----------------------------------------------------------------------------
// Sensor
// -----------------------------------------------------------------------------

type imuSensor struct{ dev *mpu6050.Device }

func (s *imuSensor) ReadRaw() (types.RawSample, error) {
	var raw mpu6050.Sample
	if err := s.dev.ReadSample(&raw); err != nil {
		return types.RawSample{}, err
	}
	return types.RawSample{
		AX: raw.AX, AY: raw.AY, AZ: raw.AZ,
		GX: raw.GX, GY: raw.GY, GZ: raw.GZ,
		Temp: raw.Temp,
	}, nil
}

// -----------------------------------------------------------------------------
// Console
// -----------------------------------------------------------------------------

// dualConsole fans the line console out over USB CDC and UART1, merging
// input from both into one non-blocking byte stream.
type dualConsole struct {
	uart *uartx.UART
	rx   chan byte
}

func newDualConsole(ctx context.Context) *dualConsole {
	u := uartx.UART1
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       pinUARTTX,
		RX:       pinUARTRX,
	})

	c := &dualConsole{uart: u, rx: make(chan byte, 64)}
	go c.pumpSerial(ctx)
	go c.pumpUART(ctx)
	return c
}

func (c *dualConsole) pumpSerial(ctx context.Context) {
	for ctx.Err() == nil {
		if machine.Serial.Buffered() > 0 {
			if b, err := machine.Serial.ReadByte(); err == nil {
				c.rx <- b
				continue
			}
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *dualConsole) pumpUART(ctx context.Context) {
	var buf [16]byte
	for ctx.Err() == nil {
		n, err := c.uart.RecvSomeContext(ctx, buf[:])
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			c.rx <- b
		}
	}
}

func (c *dualConsole) ReadByte() (byte, bool) {
	select {
	case b := <-c.rx:
		return b, true
	default:
		return 0, false
	}
}

func (c *dualConsole) Write(p []byte) (int, error) {
	_, _ = machine.Serial.Write(p)
	return c.uart.Write(p)
}
