package evk

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/config"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/core"
)

// Peripheral instances New assembles from the reference-manual base
// addresses and clock-gate assignments in addr.go.
var (
	GPIO1 = &Controller{Base: gpio1Base, CCGR: ccmCCGR1, CG: cg13}
)

// EVK wires every evk driver into a core.Deps, the non-simulated analogue
// of internal/simboard. New is the entry point; the caller drives the
// resulting *core.Core exactly as it would against a simboard-backed one.
type EVK struct {
	Core *core.Core

	Signal *InterCoreSignal
	CSU    *CSU
}

// csuCoreMasterID is this core's bus master index within the CSU's 16-slot
// security-access table; granted non-secure RW access at boot so the
// guarded MemWrite path is never blocked at the bus fabric before the soft
// MPU (mpu package) even gets to evaluate the access.
const csuCoreMasterID = 4

// New assembles a core.Deps against real i.MX6ULL EVK peripherals and runs
// the supervisory core's boot sequence (core.New). handoffBase is the
// physical address of the linker-provided AWDG init handoff section;
// tempCalibration is the OCOTP-fused TEMPMON calibration word.
func New(cfg config.Config, handoffBase uint32, tempCalibration uint32) (*EVK, error) {
	gpio := NewUserGPIO(GPIO1)
	signal := NewInterCoreSignal(GPIO1, SPISelectPins[1]+1)
	csu := NewCSU()
	if err := csu.Permit(csuCoreMasterID, false, false); err != nil {
		return nil, err
	}

	handoff := NewHandoff(handoffBase)
	seed, pubKeyDER, _ := handoff.Read()
	handoff.Zero()

	deps := core.Deps{
		GPIO:       gpio,
		SRTC:       SRTC{},
		HPRTC:      NewHPRTC(),
		Signal:     signal,
		HWWatchdog: NewHardwareWDOG(),
		Reset:      NewHardwareWDOG(),
		Regs:       NewPersistentRegisters(),
		Temp:       NewTemperatureSensor(tempCalibration),
		Tamper:     TamperMonitor{},
		MemWriter:  MemWrite{},
		Barrier:    Barrier{},
		Critical:   &CriticalSection{},
		RNGSeed:    seed,
		PubKeyDER:  pubKeyDER,
	}

	c, st := core.New(cfg, deps)
	if !st.Ok() {
		return nil, errStatus{st}
	}

	return &EVK{Core: c, Signal: signal, CSU: csu}, nil
}

type errStatus struct{ s interface{ String() string } }

func (e errStatus) Error() string { return e.s.String() }
