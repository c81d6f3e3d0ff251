// Command mill-sim runs the mill controller against in-memory GPIO and
// PWM, reading commands from stdin and printing status to stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"picomill/core"
	"picomill/standalone"
	"picomill/standalone/axis"
	"picomill/standalone/config"
	"picomill/standalone/status"
	"picomill/standalone/stepgen"
)

var (
	configPath = flag.String("config", "", "Machine configuration (YAML or JSON); defaults to the reference machine")
	realtime   = flag.Bool("realtime", false, "Time step pulses for real instead of instantly")
	steps      = flag.Bool("steps", false, "Print the number of step pulses per axis after each command")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", *configPath, err)
			os.Exit(1)
		}
	}

	gpio := core.NewMemGPIO()
	sleep := func(time.Duration) {}
	if *realtime {
		sleep = time.Sleep
	}

	axes := cfg.NewAxes()
	pulser, err := stepgen.NewGPIOPulser(gpio, axes, stepgen.GPIOConfig{
		PulseWidth: cfg.PulseWidth(),
		DirSettle:  cfg.DirSettle(),
		InvertDir:  cfg.InvertDir(),
		Sleep:      sleep,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctrl, err := standalone.NewController(cfg, pulser, core.NewMemPWM(), status.NewTextReporter(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Lines are executed as they are read; the single-slot inbox would
	// drop lines from a piped script.
	manager := standalone.NewManager(ctrl, nil)
	manager.Start()
	defer manager.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		before := stepCounts(gpio, axes)
		_ = manager.ProcessLine(scanner.Text())
		if *steps {
			after := stepCounts(gpio, axes)
			fmt.Printf("steps x=%d y=%d z=%d\n", after[0]-before[0], after[1]-before[1], after[2]-before[2])
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// stepCounts returns the rising edges seen so far on each step pin
func stepCounts(gpio *core.MemGPIO, axes *axis.Set) [axis.Count]int {
	var n [axis.Count]int
	for id := axis.X; id <= axis.Z; id++ {
		n[id] = gpio.Rises(axes[id].Step)
	}
	return n
}
