// The qmc2g-core command drives the supervisory core against a simulated
// board (internal/simboard) instead of real i.MX6ULL silicon: it boots a
// core.Core, then runs the same ISR sequence a real NVIC would fire --
// periodic tick, systick, GPIO edge, inter-core -- on plain Go tickers, so
// the full boot-and-run sequence can be exercised and watched without
// hardware. A real deployment links board/evk in place of internal/simboard
// and fires these same Core methods from actual interrupt vectors instead
// of this loop.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"golang.org/x/time/rate"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/config"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/core"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/exception"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/simboard"
)

const (
	systickPeriod = 10 * time.Millisecond
	runFor        = 2 * time.Second
)

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	fmt.Println("-- boot ----------------------------------------------------------------")
	c, gpio, reset := boot()
	fmt.Printf("ready=%v previous-reset-cause=%v\n", c.Ready(), c.PreviousResetCause())

	fmt.Println("-- run -------------------------------------------------------------------")
	run(c, gpio, reset)

	fmt.Println("-- done ------------------------------------------------------------------")
}

// boot assembles a simulated board and runs the supervisory core's boot
// sequence. A crash here is unrecoverable by construction (there is no
// mirror state yet to roll back to), so it is reported and fatal rather
// than caught the way run's steady-state panics are.
func boot() (*core.Core, *simboard.GPIO, *simboard.SystemReset) {
	gpio := &simboard.GPIO{}
	reset := &simboard.SystemReset{}

	deps := core.Deps{
		GPIO:       gpio,
		SRTC:       &simboard.SRTC{},
		HPRTC:      &simboard.HPRTC{},
		Signal:     &simboard.Signal{},
		HWWatchdog: &simboard.HardwareWatchdog{},
		Reset:      reset,
		Regs:       &simboard.Registers{},
		Temp:       &simboard.TemperatureSensor{MilliC: 45000},
		Tamper:     &simboard.TamperMonitor{},
		MemWriter:  simboard.NewMemoryWriter(config.Default.MemWriteRegions[0].Base, 0x8000),
		Barrier:    simboard.Barrier{},
		Critical:   &simboard.CriticalSection{},
		RNGSeed:    make([]byte, 48),
		PubKeyDER:  make([]byte, 0),
	}

	c, st := core.New(config.Default, deps)
	if !st.Ok() {
		log.Fatalf("qmc2g-core: boot failed: %s", st)
	}
	return c, gpio, reset
}

// run drives tick, systick, and mirror-flush on independent timers for
// runFor, recovering from a simulated hardware reset the same way a real
// reboot would restart this loop from boot() -- except here it simply
// stops, since there is nothing upstream to restart it.
func run(c *core.Core, gpio *simboard.GPIO, reset *simboard.SystemReset) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if r != simboard.ErrSystemReset {
			log.Printf("qmc2g-core: unhandled panic in main loop: %v", r)
			exception.Throw(callerPC())
		}
		log.Printf("qmc2g-core: simulated reset observed (resets=%d)", reset.Resets())
	}()

	tick := time.NewTicker(time.Second / time.Duration(config.Default.TickFrequencyHz))
	defer tick.Stop()

	systick := time.NewTicker(systickPeriod)
	defer systick.Stop()

	flush := time.NewTicker(100 * time.Millisecond)
	defer flush.Stop()

	deadline := time.After(runFor)

	// The tick ISR fires at TickFrequencyHz (1024 Hz by default); a status
	// line on every tick would drown the run in noise, so diagnostic
	// printing is rate-limited independently of the ISR cadence itself.
	diag := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)

	// Flip an input partway through the run to exercise the debounced
	// GPIO mirror and its change event: SetInputs stands in for the pin
	// physically toggling, GPIOEdgeISR for the edge IRQ that rising edge
	// would raise on real silicon, arming the debounce counter systick
	// then counts down.
	edge := time.AfterFunc(runFor/2, func() {
		bank := uint32(0b0001)
		gpio.SetInputs(bank)
		c.GPIOEdgeISR(bank)
	})
	defer edge.Stop()

	for {
		select {
		case <-tick.C:
			c.TickISR()
			if diag.Allow() {
				log.Printf("tick: outputs=%#04x", gpio.Outputs())
			}
		case <-systick.C:
			c.SystickISR(gpio.ReadInputs())
		case <-flush.C:
			c.ProcessDeferredWork()
			c.FlushMirror()
		case <-deadline:
			return
		}
	}
}

// callerPC finds the program counter inside run's deferred recover so
// exception.Throw can report where the panic was caught, the same role a
// hardware exception vector plays by passing its trapped link register.
func callerPC() uintptr {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return 0
	}
	return pc
}
