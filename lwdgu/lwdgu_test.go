package lwdgu

import (
	"testing"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

func TestMsToTicksRoundsUp(t *testing.T) {
	ticks, st := MsToTicks(1, 1000)
	if st != status.OK || ticks != 1 {
		t.Fatalf("got ticks=%d st=%v", ticks, st)
	}

	ticks, st = MsToTicks(1, 1)
	if st != status.OK || ticks != 1 {
		t.Fatalf("got ticks=%d st=%v", ticks, st)
	}

	// 1024 Hz, 10 ms -> ceil(10240/1000) = 11
	ticks, st = MsToTicks(10, 1024)
	if st != status.OK || ticks != 11 {
		t.Fatalf("got ticks=%d st=%v", ticks, st)
	}
}

func TestMsToTicksRejectsZeroFrequency(t *testing.T) {
	if _, st := MsToTicks(10, 0); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}

// Grace of 2 ticks, one member with reload 3.
func TestFunctionalWatchdogGrace(t *testing.T) {
	// grace of 2 ticks and member reload of 3 ticks, using a 1 Hz unit so
	// ms values equal tick counts.
	u, st := Init(2000, 1, 1)
	if st != status.OK {
		t.Fatalf("init: %v", st)
	}
	if st := u.InitMember(0, 3000); st != status.OK {
		t.Fatalf("init member: %v", st)
	}

	if kr, st := u.KickOne(0); st != status.OK || kr != lwdg.Started {
		t.Fatalf("kick: kr=%v st=%v", kr, st)
	}

	for i := 0; i < 3; i++ {
		if tr := u.Tick(); tr != NotRunning {
			t.Fatalf("tick %d: expected NotRunning (grace not yet started), got %v", i, tr)
		}
	}

	if tr := u.Tick(); tr != Running {
		t.Fatalf("expected grace Running (JustStarted case folds to Running countdown), got %v", tr)
	}

	if u.GraceTriggeredBy() != 0 {
		t.Fatalf("expected member 0 to have triggered grace, got %d", u.GraceTriggeredBy())
	}

	if tr := u.Tick(); tr != Running {
		t.Fatalf("expected Running, got %v", tr)
	}

	if tr := u.Tick(); tr != JustExpired {
		t.Fatalf("expected JustExpired, got %v", tr)
	}
}

func TestGraceZeroExpiresImmediately(t *testing.T) {
	u, _ := Init(0, 1000, 1)
	u.InitMember(0, 5)
	u.KickOne(0)

	for i := 0; i < 5; i++ {
		u.Tick()
	}

	if tr := u.Tick(); tr != JustExpired {
		t.Fatalf("grace of 0 must expire immediately once triggered, got %v", tr)
	}
}

func TestUninitializedMemberExpiresAtFirstTickAfterKick(t *testing.T) {
	u, _ := Init(0, 1, 2)
	// member 1 left uninitialized (reload 0)
	u.KickOne(1)

	if tr := u.Tick(); tr != JustExpired {
		t.Fatalf("expected uninitialized member to expire immediately, got %v", tr)
	}
	if u.GraceTriggeredBy() != 1 {
		t.Fatalf("expected member 1 to have triggered grace, got %d", u.GraceTriggeredBy())
	}
}

func TestInitMemberOutOfRangeFails(t *testing.T) {
	u, _ := Init(1000, 1, 1)
	if st := u.InitMember(5, 100); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}
