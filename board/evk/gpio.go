package evk

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"
)

// GPIO1 register offsets (p986, 28.4.1/28.4.3, IMX6ULLRM), relative to
// gpio1Base.
const (
	gpioDR   = 0x00
	gpioGDIR = 0x04
)

// Controller is a single GPIO bank: it enables its clock gate once on first
// pin Init, then hands out Pin handles addressing the DR/GDIR registers
// directly.
type Controller struct {
	Base uint32
	CCGR uint32
	CG   int

	clocked bool
}

// Pin is a single GPIO signal within a Controller.
type Pin struct {
	num  int
	data uint32
	dir  uint32
}

// Init returns the Pin handle for signal num (0-31), enabling the
// controller's clock gate on first use.
func (c *Controller) Init(num int) *Pin {
	if !c.clocked {
		reg.SetN(c.CCGR, c.CG, 0b11, 0b11)
		c.clocked = true
	}
	return &Pin{num: num, data: c.Base + gpioDR, dir: c.Base + gpioGDIR}
}

func (p *Pin) Out() { reg.Set(p.dir, p.num) }

func (p *Pin) In() { reg.Clear(p.dir, p.num) }

func (p *Pin) High() { reg.Set(p.data, p.num) }

func (p *Pin) Low() { reg.Clear(p.data, p.num) }

func (p *Pin) Value() bool { return reg.Get(p.data, p.num, 1) == 1 }

func (p *Pin) SetTo(v bool) { reg.SetTo(p.data, p.num, v) }

// UserGPIO implements hal.GPIO against the four user-input and four
// user-output pins, plus the two SPI-select outputs; all of them live on
// bank GPIO1 on this target.
type UserGPIO struct {
	bank    *Controller
	inputs  [4]*Pin
	outputs [4]*Pin
	spiSel  [2]*Pin
}

// InputPins/OutputPins/SPISelectPins are the fixed pin-number assignments
// for the four user inputs, four user outputs, and two SPI-select outputs,
// numbered within GPIO1 and chosen to avoid the pins the reference board
// muxes to I2C/UART/USDHC on the same bank.
var (
	InputPins     = [4]int{0, 1, 2, 3}
	OutputPins    = [4]int{4, 5, 6, 7}
	SPISelectPins = [2]int{8, 9}
)

// NewUserGPIO configures the fixed user pin set: inputs as In(), outputs and
// SPI-select pins as Out().
func NewUserGPIO(bank *Controller) *UserGPIO {
	g := &UserGPIO{bank: bank}
	for i, n := range InputPins {
		g.inputs[i] = bank.Init(n)
		g.inputs[i].In()
	}
	for i, n := range OutputPins {
		g.outputs[i] = bank.Init(n)
		g.outputs[i].Out()
	}
	for i, n := range SPISelectPins {
		g.spiSel[i] = bank.Init(n)
		g.spiSel[i].Out()
	}
	return g
}

// ReadInputs implements hal.GPIO: bit i of the returned bank is input i's
// live level.
func (g *UserGPIO) ReadInputs() uint32 {
	var bank uint32
	for i, p := range g.inputs {
		if p.Value() {
			bank |= 1 << uint(i)
		}
	}
	return bank
}

// SetOutput implements hal.GPIO: pin is 0-indexed into OutputPins.
func (g *UserGPIO) SetOutput(pin int, high bool) {
	if pin < 0 || pin >= len(g.outputs) {
		return
	}
	g.outputs[pin].SetTo(high)
}
