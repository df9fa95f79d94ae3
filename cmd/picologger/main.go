//go:build rp2040

// Command picologger runs the IMU datalogger on a Raspberry Pi Pico:
// MPU-6050 on I2C0, SSD1306 panel on I2C1, SD card on SPI0, an RGB LED,
// a piezo buzzer, two push buttons and a console on USB CDC plus UART1.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target pico ./cmd/picologger
package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/drivers/ssd1306"

	"datalogger-go/bus"
	"datalogger-go/drivers/mpu6050"
	"datalogger-go/services/config"
	"datalogger-go/services/ctrl"
	"datalogger-go/services/display"
	"datalogger-go/services/heartbeat"
)

const boardID = "pico"

func main() {
	// Give USB CDC time to enumerate before the banner goes out.
	time.Sleep(2 * time.Second)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, boardID)

	b := bus.NewBus(32)
	conn := b.NewConnection("picologger")
	config.NewService().Start(ctx, conn)

	sections, _ := config.Load(boardID)
	cfg := config.Controller(sections)

	// Motion sensor.
	machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinIMUSDA,
		SCL:       pinIMUSCL,
		Frequency: 400_000,
	})
	imu := mpu6050.New(machine.I2C0)
	_ = imu.Configure()

	// Panel.
	machine.I2C1.Configure(machine.I2CConfig{
		SDA:       pinOLEDSDA,
		SCL:       pinOLEDSCL,
		Frequency: 400_000,
	})
	oled := ssd1306.NewI2C(machine.I2C1)
	oled.Configure(ssd1306.Config{Address: 0x3C, Width: 128, Height: 64})

	// Storage.
	sd := sdcard.New(machine.SPI0, pinSDSCK, pinSDMOSI, pinSDMISO, pinSDCS)
	storage := ctrl.NewStorageManager()
	storage.AddVolume(cfg.Volume, newSDVolume(&sd))

	c := ctrl.New(cfg, ctrl.Deps{
		Storage: storage,
		Sensor:  &imuSensor{dev: &imu},
		Clock:   &softClock{},
		Port:    newDualConsole(ctx),
		Lamp:    newRGBLamp(),
		Beeper:  newBuzzer(),
		Panel:   display.New(&oled),
		Conn:    conn,
	})

	wireButtons(c)

	hb := &heartbeat.Service{Samples: c.Engine().Count}
	_ = hb.Start(ctx, conn)

	c.Run(ctx)
}

// wireButtons routes the pin interrupts into the debouncer. The handlers
// run in interrupt context and must touch nothing but the debouncer.
func wireButtons(c *ctrl.Controller) {
	pinBtnCapture.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	_ = pinBtnCapture.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		c.Debounce().OnEdge(ctrl.ControlCapture, time.Now())
	})
	pinBtnMount.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	_ = pinBtnMount.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		c.Debounce().OnEdge(ctrl.ControlMount, time.Now())
	})
}
