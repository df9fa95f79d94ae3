// Package mpu6050 provides a driver for the InvenSense MPU-6050 six-axis
// motion sensor. It performs one 14-byte burst read covering acceleration,
// die temperature and angular rate, and leaves unit conversion to the caller.
//
// At the default full-scale ranges (±2 g, ±250 °/s) one accel count is
// 1/16384 g and one gyro count is 1/131 °/s.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package mpu6050

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address (AD0 low). 0x69 when AD0 is tied high.
const Address = 0x68

// Registers.
const (
	regSmplrtDiv   = 0x19
	regConfig      = 0x1A
	regGyroConfig  = 0x1B
	regAccelConfig = 0x1C
	regAccelXoutH  = 0x3B
	regPwrMgmt1    = 0x6B
	regWhoAmI      = 0x75

	bitDeviceReset = 0x80
	whoAmIValue    = 0x68
)

var ErrNotConnected = errors.New("mpu6050: no response at address")

// Sample is one raw register snapshot.
type Sample struct {
	AX, AY, AZ int16 // acceleration, 1/16384 g per count
	GX, GY, GZ int16 // angular rate, 1/131 °/s per count
	Temp       int16 // die temperature, raw counts
}

// Config controls the initial register setup. All fields are optional.
type Config struct {
	// Address defaults to 0x68 if zero.
	Address uint16
}

// Device wraps an I2C connection to an MPU-6050.
type Device struct {
	bus     drivers.I2C
	Address uint16

	buf [14]byte // reuse buffer to avoid allocations
}

// New creates a new MPU-6050 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not touch
// the device.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure resets the device and takes it out of sleep so sampling runs
// continuously at the default ranges.
func (d *Device) Configure(cfgs ...Config) error {
	if len(cfgs) > 0 && cfgs[0].Address != 0 {
		d.Address = cfgs[0].Address
	}

	if err := d.bus.Tx(d.Address, []byte{regPwrMgmt1, bitDeviceReset}, nil); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)

	// Wake; internal oscillator, all axes on, default ±2 g / ±250 °/s.
	if err := d.bus.Tx(d.Address, []byte{regPwrMgmt1, 0x00}, nil); err != nil {
		return err
	}
	return nil
}

// Connected probes WHO_AM_I.
func (d *Device) Connected() bool {
	if err := d.bus.Tx(d.Address, []byte{regWhoAmI}, d.buf[:1]); err != nil {
		return false
	}
	return d.buf[0] == whoAmIValue
}

// ReadSample fills s from one burst read of ACCEL_XOUT_H..GYRO_ZOUT_L.
func (d *Device) ReadSample(s *Sample) error {
	if err := d.bus.Tx(d.Address, []byte{regAccelXoutH}, d.buf[:14]); err != nil {
		return err
	}
	s.AX = be16(d.buf[0], d.buf[1])
	s.AY = be16(d.buf[2], d.buf[3])
	s.AZ = be16(d.buf[4], d.buf[5])
	s.Temp = be16(d.buf[6], d.buf[7])
	s.GX = be16(d.buf[8], d.buf[9])
	s.GY = be16(d.buf[10], d.buf[11])
	s.GZ = be16(d.buf[12], d.buf[13])
	return nil
}

func be16(hi, lo byte) int16 {
	return int16(uint16(hi)<<8 | uint16(lo))
}
