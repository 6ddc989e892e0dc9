// Command example times a print statement and reports it together with the
// clock overhead measured at startup.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/onegii/go-lapse/lapse"
	"golang.org/x/exp/slog"
)

func main() {
	samples := flag.Int("samples", 10000, "samples per timer")
	tbl := flag.Bool("table", false, "report as a table instead of TSV")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	if *verbose {
		lapse.SetLogLevel(slog.LevelDebug)
	}

	rb := lapse.NewRegistryBuilder()
	if *tbl {
		rb.WithFormat(lapse.FormatTable)
	}

	r, err := rb.New(*samples)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printf, err := r.NameSlot("PRNT")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = r.Time(printf, func() {
		fmt.Println("Hello World")
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := r.Teardown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
