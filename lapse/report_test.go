package lapse

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

const clckRow = "CLCK \t0.00e+00 \t0.00e+00 \t0.00e+00 \t0.00e+00 \n"

func newReportRegistry(t *testing.T, f Format) (*Registry, *manualClock, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	clk := &manualClock{}
	r, err := NewRegistryBuilder().
		WithClock(clk.now).
		WithOutput(&out).
		WithFormat(f).
		New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, clk, &out
}

func TestReport(t *testing.T) {
	r, clk, _ := newReportRegistry(t, FormatTSV)
	id, _ := r.NameSlot("WORK")

	for _, d := range []time.Duration{time.Millisecond, 3 * time.Millisecond} {
		r.Time(id, func() { clk.advance(d) })
	}

	got, err := r.Report(id, false)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := "WORK \t1.00e-03 \t3.00e-03 \t2.00e-03 \t4.00e-03 \n"
	if got != want {
		t.Errorf("Report = %q, want %q", got, want)
	}

	got, err = r.Report(CalibrationSlot, true)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want = "Timer \tMin \tMax \tAvg \tTtl \n" + clckRow
	if got != want {
		t.Errorf("Report with header = %q, want %q", got, want)
	}
}

func TestTeardownTSV(t *testing.T) {
	r, clk, out := newReportRegistry(t, FormatTSV)

	work, _ := r.NameSlot("WORK")
	idle, _ := r.NameSlot("IDLE")
	wait, _ := r.NameSlot("WAIT")

	r.Time(work, func() { clk.advance(2 * time.Millisecond) })
	r.Time(wait, func() { clk.advance(5 * time.Second) })

	if err := r.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	want := "Timer \tMin \tMax \tAvg \tTtl \n" +
		clckRow +
		"WORK \t2.00e-03 \t2.00e-03 \t2.00e-03 \t2.00e-03 \n" +
		"WAIT \t5.00e+00 \t5.00e+00 \t5.00e+00 \t5.00e+00 \n"
	if out.String() != want {
		t.Errorf("Teardown wrote %q, want %q", out.String(), want)
	}

	if _, err := r.Report(idle, false); !errors.Is(err, ErrAlreadyTornDown) {
		t.Errorf("Report after Teardown = %v, want ErrAlreadyTornDown", err)
	}
}

func TestTeardownOnlyCalibration(t *testing.T) {
	r, _, out := newReportRegistry(t, FormatTSV)
	r.NameSlot("IDLE")

	if err := r.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	want := "Timer \tMin \tMax \tAvg \tTtl \n" + clckRow
	if out.String() != want {
		t.Errorf("Teardown wrote %q, want %q", out.String(), want)
	}
}

func TestPrintKeepsRegistry(t *testing.T) {
	r, clk, out := newReportRegistry(t, FormatTSV)
	id, _ := r.NameSlot("WORK")
	r.Time(id, func() { clk.advance(time.Millisecond) })

	if err := r.Print(); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(out.String(), "WORK \t1.00e-03") {
		t.Errorf("Print output %q misses WORK", out.String())
	}

	if err := r.Time(id, func() {}); err != nil {
		t.Errorf("Time after Print: %v", err)
	}
}

func TestTeardownTable(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	r, clk, out := newReportRegistry(t, FormatTable)
	id, _ := r.NameSlot("WORK")
	r.Time(id, func() { clk.advance(2 * time.Millisecond) })

	if err := r.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}

	s := out.String()
	for _, want := range []string{"Timers", "Timer", "Ttl", "nsamples", "CLCK", "WORK", "2.00e-03"} {
		if !strings.Contains(s, want) {
			t.Errorf("table output misses %q:\n%s", want, s)
		}
	}
	if strings.Index(s, "CLCK") > strings.Index(s, "WORK") {
		t.Errorf("calibration slot is not first:\n%s", s)
	}
}

func TestFormatString(t *testing.T) {
	if FormatTSV.String() != "tsv" || FormatTable.String() != "table" {
		t.Errorf("unexpected format names %s, %s", FormatTSV, FormatTable)
	}
	if Format(7).String() != "format(7)" {
		t.Errorf("Format(7) = %s", Format(7))
	}
}

// failingWriter accepts the first write and fails every later one.
type failingWriter struct {
	writes int
}

var errSinkClosed = errors.New("sink closed")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > 1 {
		return 0, errSinkClosed
	}
	return len(p), nil
}

func TestTeardownReportsWriteError(t *testing.T) {
	for _, f := range []Format{FormatTSV, FormatTable} {
		w := &failingWriter{writes: 1}
		clk := &manualClock{}
		r, err := NewRegistryBuilder().
			WithClock(clk.now).
			WithOutput(w).
			WithFormat(f).
			New(4)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		if err := r.Teardown(); !errors.Is(err, errSinkClosed) {
			t.Errorf("%s Teardown = %v, want %v", f, err, errSinkClosed)
		}
	}
}

func TestTableWrittenOnce(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	w := &failingWriter{}
	r, err := NewRegistryBuilder().
		WithClock((&manualClock{}).now).
		WithOutput(w).
		WithFormat(FormatTable).
		New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Teardown(); err != nil {
		t.Errorf("Teardown: %v", err)
	}
	if w.writes != 1 {
		t.Errorf("table written in %d writes, want 1", w.writes)
	}
}
