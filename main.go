// Command emission-decay prints the amount left on a target date after a
// monthly decay starting 2025-02-28.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/damon-houk/emission-decay/internal/domain/decay"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultAmount = 1000
	defaultRate   = 0.05
	defaultTarget = "2025-04-30"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, prints the result line to stdout and returns the exit code.
// An unparseable date still prints a NaN line and exits 0.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("emission-decay", flag.ContinueOnError)
	fs.SetOutput(stderr)

	amount := fs.Float64("amount", defaultAmount, "initial amount")
	rate := fs.Float64("rate", defaultRate, "fractional decay per 30-day period")
	mode := fs.String("mode", string(decay.ModeFloat), "arithmetic: float or fixed")
	verbose := fs.Bool("v", false, "log calculation details to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := logger.WarnLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log := logger.NewJSONLogger(stderr, level)

	target := defaultTarget
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}

	m, err := decay.ParseMode(*mode)
	if err != nil {
		log.Error("Invalid mode", map[string]interface{}{"mode": *mode, "error": err.Error()})
		return 2
	}

	var result float64
	switch m {
	case decay.ModeFixed:
		t, err := decay.ParseDate(target)
		if err != nil {
			log.Error("Invalid target date", map[string]interface{}{"target_date": target, "error": err.Error()})
			return 1
		}
		d, periods := decay.FixedAmountAt(decimal.NewFromFloat(*amount), decimal.NewFromFloat(*rate), t)
		log.Debug("Fixed-point decay", map[string]interface{}{"periods": periods, "amount": d.String()})
		result = d.InexactFloat64()
	default:
		result = decay.Amount(*amount, *rate, target)
		log.Debug("Float decay", map[string]interface{}{"target_date": target, "amount": result})
	}

	fmt.Fprintln(stdout, decay.FormatLine(target, result))
	return 0
}
