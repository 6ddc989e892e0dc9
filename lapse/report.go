package lapse

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Format selects how [Registry.Print] and [Registry.Teardown] render slots.
type Format int

const (
	// FormatTSV writes one tab separated row per slot, preceded by a header
	// row, with values in scientific notation.
	FormatTSV Format = iota
	// FormatTable writes a single aligned table with a coloured header.
	FormatTable
)

func (f Format) String() string {
	switch f {
	case FormatTSV:
		return "tsv"
	case FormatTable:
		return "table"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

const (
	tsvHeader = "Timer \tMin \tMax \tAvg \tTtl \n"
	tsvRow    = "%s \t%.2e \t%.2e \t%.2e \t%.2e \n"
)

type row struct {
	name string
	Stats
}

func (rw row) tsv() string {
	return fmt.Sprintf(tsvRow, rw.name, rw.Min, rw.Max, rw.Avg, rw.Total)
}

// Report returns the TSV row of slot id: name, min, max, avg and total. If
// header is set the row is preceded by the column names.
func (r *Registry) Report(id int, header bool) (string, error) {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	s, err := r.slot(id)
	if err != nil {
		return "", slotError("report", id, err)
	}

	if r.locking {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	st, err := s.stats()
	if err != nil {
		return "", slotError("report", id, err)
	}

	rw := row{name: s.name, Stats: st}
	if header {
		return tsvHeader + rw.tsv(), nil
	}
	return rw.tsv(), nil
}

// Print writes the report of every slot holding samples to the registry
// output, in the registry format. The calibration slot always comes first.
func (r *Registry) Print() error {
	rows, err := r.snapshot()
	if err != nil {
		return err
	}
	return r.render(r.out, rows)
}

func (r *Registry) snapshot() ([]row, error) {
	if r.locking {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	if err := r.usable(); err != nil {
		return nil, err
	}
	return r.rows(), nil
}

// rows collects the statistics of every slot holding samples. The caller
// holds the registry lock.
func (r *Registry) rows() []row {
	rows := make([]row, 0, len(r.slots))

	for i := range r.slots {
		s := &r.slots[i]
		if r.locking {
			s.mu.Lock()
		}
		st, err := s.stats()
		if r.locking {
			s.mu.Unlock()
		}
		if err != nil {
			continue
		}
		rows = append(rows, row{name: s.name, Stats: st})
	}

	return rows
}

func (r *Registry) render(w io.Writer, rows []row) error {
	if r.format == FormatTable {
		return renderTable(w, rows)
	}
	return renderTSV(w, rows)
}

func renderTSV(w io.Writer, rows []row) error {
	var b strings.Builder

	b.WriteString(tsvHeader)
	for _, rw := range rows {
		b.WriteString(rw.tsv())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderTable(w io.Writer, rows []row) error {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()

	// rendered in memory since table.Print drops write errors
	var b bytes.Buffer

	tbl := table.New("Timer", "Min", "Max", "Avg", "Ttl", "nsamples")
	tbl.WithHeaderFormatter(headerFmt)
	tbl.WithWriter(&b)

	for _, rw := range rows {
		tbl.AddRow(
			rw.name,
			fmt.Sprintf("%.2e", rw.Min),
			fmt.Sprintf("%.2e", rw.Max),
			fmt.Sprintf("%.2e", rw.Avg),
			fmt.Sprintf("%.2e", rw.Total),
			rw.Count)
	}

	color.New(color.FgGreen).Add(color.Bold).Fprintf(&b, "\n\u24c1 Timers\n")
	tbl.Print()

	_, err := io.WriteString(w, b.String())
	return err
}
