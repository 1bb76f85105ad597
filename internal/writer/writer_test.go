// internal/writer/writer_test.go
package writer

import (
	"errors"
	"testing"
	"time"
)

// ---- fake coil client ----

type fakeCoilClient struct {
	writes []writeCall
	failAt int // 1-based call index to fail; 0 = never
}

type writeCall struct {
	addr  uint16
	value bool
}

func (f *fakeCoilClient) WriteCoil(addr uint16, value bool) error {
	f.writes = append(f.writes, writeCall{addr: addr, value: value})
	if f.failAt == len(f.writes) {
		return errors.New("device busy")
	}
	return nil
}

type recordingSleep struct {
	calls []time.Duration
}

func (r *recordingSleep) sleep(d time.Duration) { r.calls = append(r.calls, d) }

var (
	auto   = Coil{Name: "auto", Address: 39}
	manual = Coil{Name: "manual", Address: 41}
	start  = Coil{Name: "start", Address: 39}
)

// ---- tests ----

func TestExecute_InterlockOrder(t *testing.T) {
	fake := &fakeCoilClient{}
	rs := &recordingSleep{}

	plan, err := BuildInterlockPlan("set_auto", auto, manual, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("BuildInterlockPlan err=%v", err)
	}

	if err := New(fake, nil, rs.sleep).Execute(plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []writeCall{{39, true}, {41, false}}
	if len(fake.writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(fake.writes))
	}
	for i := range want {
		if fake.writes[i] != want[i] {
			t.Fatalf("write %d: got %+v want %+v", i, fake.writes[i], want[i])
		}
	}
	if len(rs.calls) != 1 || rs.calls[0] != 100*time.Millisecond {
		t.Fatalf("expected one settle of 100ms, got %v", rs.calls)
	}
}

func TestExecute_FirstStepFailureIsTotal(t *testing.T) {
	fake := &fakeCoilClient{failAt: 1}
	plan, _ := BuildInterlockPlan("set_auto", auto, manual, 0)

	err := New(fake, nil, nil).Execute(plan)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if errors.Is(err, ErrPartial) {
		t.Fatalf("first-step failure must not be partial: %v", err)
	}
	if len(fake.writes) != 1 {
		t.Fatalf("secondary must not be attempted, got %d writes", len(fake.writes))
	}
}

func TestExecute_SecondStepFailureIsPartial(t *testing.T) {
	fake := &fakeCoilClient{failAt: 2}
	plan, _ := BuildInterlockPlan("set_auto", auto, manual, 0)

	err := New(fake, nil, nil).Execute(plan)

	var pe *PartialError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PartialError, got %T (%v)", err, err)
	}
	if pe.Applied != 1 || pe.Step.Address != 41 || pe.Step.Value {
		t.Fatalf("unexpected partial context: %+v", pe)
	}
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("expected errors.Is(ErrPartial)")
	}
	if errors.Is(err, ErrCoilStuck) {
		t.Fatalf("interlock partial must not report a stuck coil")
	}
}

func TestExecute_PulseExactlyTwoWrites(t *testing.T) {
	fake := &fakeCoilClient{}
	rs := &recordingSleep{}

	plan, err := BuildPulsePlan("press_start", start, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("BuildPulsePlan err=%v", err)
	}

	if err := New(fake, nil, rs.sleep).Execute(plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []writeCall{{39, true}, {39, false}}
	if len(fake.writes) != 2 || fake.writes[0] != want[0] || fake.writes[1] != want[1] {
		t.Fatalf("got writes %+v want %+v", fake.writes, want)
	}
	if len(rs.calls) != 1 || rs.calls[0] < 200*time.Millisecond {
		t.Fatalf("expected hold >= 200ms, got %v", rs.calls)
	}
}

func TestExecute_PulseReleaseFailureIsStuck(t *testing.T) {
	fake := &fakeCoilClient{failAt: 2}
	plan, _ := BuildPulsePlan("press_start", start, 0)

	err := New(fake, nil, nil).Execute(plan)
	if !errors.Is(err, ErrCoilStuck) {
		t.Fatalf("expected ErrCoilStuck, got %v", err)
	}
}

func TestExecute_RealTimeHold(t *testing.T) {
	fake := &fakeCoilClient{}
	plan, _ := BuildPulsePlan("press_start", start, 30*time.Millisecond)

	began := time.Now()
	if err := New(fake, nil, nil).Execute(plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(began); elapsed < 30*time.Millisecond {
		t.Fatalf("pulse released after %v, want >= 30ms", elapsed)
	}
}

func TestBuild_Rejects(t *testing.T) {
	if _, err := BuildInterlockPlan("", auto, manual, 0); err == nil {
		t.Fatalf("expected name error")
	}
	if _, err := BuildInterlockPlan("x", auto, Coil{Name: "other", Address: 39}, 0); err == nil {
		t.Fatalf("expected shared-address error")
	}
	if _, err := BuildPulsePlan("x", start, -time.Second); err == nil {
		t.Fatalf("expected negative width error")
	}
	if err := New(&fakeCoilClient{}, nil, nil).Execute(Plan{Name: "empty"}); err == nil {
		t.Fatalf("expected empty plan error")
	}
}
