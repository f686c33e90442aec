// solenoid-seq drives a rack of drum solenoids (or a MIDI drum module
// standing in for one) in two modes:
//
//  1. Generative (default): a Grids-style pattern engine fires the
//     channels autonomously.
//  2. MIDI: inbound Note On messages fire timed pulses.
//
// One momentary key (or its keyboard stand-ins) controls everything:
// short press randomizes the patterns, long press toggles the mode.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"solenoid-seq/config"
	"solenoid-seq/control"
	"solenoid-seq/debug"
	"solenoid-seq/generative"
	"solenoid-seq/grids"
	"solenoid-seq/midi"
	"solenoid-seq/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Verbose {
		debug.Enable()
		defer debug.Disable()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reactive-mode transport: hot-plugged MIDI input
	input := midi.NewInputManager(cfg.InputPort)
	go input.Run(ctx)
	defer midi.Close()

	// Output driver: in-memory always (the TUI reads controller state),
	// plus an optional MIDI note output standing in for the solenoids.
	var outputs control.Outputs = control.NewMemoryOutputs()
	if cfg.OutputPort != "" {
		notes, err := midi.NewNoteOutputs(cfg.OutputPort, cfg.OutputChannel, cfg.Notes, cfg.IndicatorNote)
		if err != nil {
			fmt.Printf("midi output: %v\n", err)
			os.Exit(1)
		}
		outputs = control.Tee(outputs, notes)
	}

	engine := generative.NewEngine(grids.NewGenerator())
	ctrl := control.NewController(engine, outputs, uint32(cfg.TempoTenths))
	ctrl.SetMessageSource(input)
	ctrl.SetVerbose(cfg.Verbose)
	ctrl.Start()
	go ctrl.Run(ctx)

	m := tui.NewModel(ctrl, input.Connected)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
