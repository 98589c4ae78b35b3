package lwdg

import (
	"testing"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

func TestInitRejectsMaxUint32(t *testing.T) {
	if _, st := Init(^uint32(0)); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}

// Init(reload=5); Kick; Tick x5 -> Running x5; 6th Tick -> JustExpired;
// 7th Tick -> PreviouslyExpired.
func TestBasicTimeout(t *testing.T) {
	l, st := Init(5)
	if st != status.OK {
		t.Fatalf("init: %v", st)
	}

	if kr := l.Kick(); kr != Started {
		t.Fatalf("expected Started, got %v", kr)
	}

	for i := 0; i < 5; i++ {
		if tr := l.Tick(); tr != Running {
			t.Fatalf("tick %d: expected Running, got %v", i, tr)
		}
	}

	if tr := l.Tick(); tr != JustExpired {
		t.Fatalf("expected JustExpired, got %v", tr)
	}

	if tr := l.Tick(); tr != PreviouslyExpired {
		t.Fatalf("expected PreviouslyExpired, got %v", tr)
	}

	if !l.IsExpired() {
		t.Fatal("expected expired")
	}
}

func TestTickNotRunningUntilFirstKick(t *testing.T) {
	l, _ := Init(3)

	if tr := l.Tick(); tr != NotRunning {
		t.Fatalf("expected NotRunning, got %v", tr)
	}
}

func TestKickOnExpiredDoesNotReload(t *testing.T) {
	l, _ := Init(0)
	l.Kick()

	if tr := l.Tick(); tr != JustExpired {
		t.Fatalf("expected JustExpired, got %v", tr)
	}

	remaining := l.RemainingTicks()
	l.Kick()

	if l.RemainingTicks() != remaining {
		t.Fatalf("kick on expired watchdog must not change countdown: got %d, want %d", l.RemainingTicks(), remaining)
	}
}

func TestChangeTimeoutTicksEffectiveOnNextKickOnly(t *testing.T) {
	l, _ := Init(5)
	l.Kick()

	if st := l.ChangeTimeoutTicks(10); st != status.OK {
		t.Fatalf("change timeout: %v", st)
	}

	if l.RemainingTicks() != 6 {
		t.Fatalf("change must not be effective before next kick: got %d", l.RemainingTicks())
	}

	l.Kick()

	if l.RemainingTicks() != 11 {
		t.Fatalf("expected reload of 10+1=11 after kick, got %d", l.RemainingTicks())
	}
}

func TestChangeTimeoutTicksRejectsMaxUint32(t *testing.T) {
	l, _ := Init(5)
	if st := l.ChangeTimeoutTicks(^uint32(0)); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}
