package evk

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/bits"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"
)

// TEMPMON register offsets and bit positions (p3527, 52.3, IMX6ULLRM).
const (
	tempsense0     = 0x00
	tempsense0Set  = 0x04
	tempsense0Clr  = 0x08
	tempsense0Cnt  = 8
	tempsense0Fin  = 2
	tempsense0Meas = 1
	tempsense0PDN  = 0

	tempsense1    = 0x10
	tempsense1Clr = 0x18
	tempsense1Frq = 0
)

// TemperatureSensor implements hal.TemperatureSensor against TEMPMON,
// reporting the on-die measurement in millidegrees Celsius for the
// MCU-temperature RPC.
type TemperatureSensor struct {
	sense0    uint32
	sense0Set uint32
	sense0Clr uint32
	sense1Clr uint32

	hotTempC  uint32
	hotCount  uint32
	roomCount uint32
}

// NewTemperatureSensor builds a TemperatureSensor from the part's fused
// calibration word, read from OCOTP at boot by a layer above this package.
func NewTemperatureSensor(calibration uint32) *TemperatureSensor {
	return &TemperatureSensor{
		sense0:    tempmonBase + tempsense0,
		sense0Set: tempmonBase + tempsense0Set,
		sense0Clr: tempmonBase + tempsense0Clr,
		sense1Clr: tempmonBase + tempsense1Clr,
		hotTempC:  bits.Field(calibration, 0, 8),
		hotCount:  bits.Field(calibration, 8, 12),
		roomCount: bits.Field(calibration, 20, 12),
	}
}

// MeasureMilliC implements hal.TemperatureSensor: enables the sensor for one
// measurement, waits for completion, and converts the raw count using the
// software usage guideline formula (p3531, 52.2, IMX6ULLRM).
func (t *TemperatureSensor) MeasureMilliC() (int32, error) {
	reg.Clear(t.sense0Clr, tempsense0PDN)
	defer reg.Set(t.sense0Set, tempsense0PDN)

	reg.SetN(t.sense1Clr, tempsense1Frq, 0xffff, 0xffff)
	reg.Set(t.sense0Set, tempsense0Meas)
	reg.Wait(t.sense0, tempsense0Fin, 1, 1)

	cnt := reg.Get(t.sense0, tempsense0Cnt, 0xfff)

	n1 := float64(t.roomCount)
	n2 := float64(t.hotCount)
	t1 := 25.0
	t2 := float64(t.hotTempC)
	nm := float64(cnt)

	celsius := t2 - (nm-n2)*((t2-t1)/(n1-n2))
	return int32(celsius * 1000), nil
}
