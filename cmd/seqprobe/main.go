// seqprobe is a small diagnostic tool for solenoid-seq: list MIDI
// ports, monitor inbound messages the way the controller parses them,
// or fire a test pattern at the configured output.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"solenoid-seq/config"
	"solenoid-seq/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		monitor()
	case "fire":
		fire()
	default:
		usage()
	}
	gomidi.CloseDriver()
}

func usage() {
	fmt.Println("seqprobe - solenoid-seq diagnostics")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  monitor  - Print inbound messages on the configured input port")
	fmt.Println("  fire     - Pulse each configured output note once")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range midi.ListInPorts() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("=== MIDI Output Ports ===")
	for i, name := range midi.ListOutPorts() {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func monitor() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	var port string
	for _, name := range midi.ListInPorts() {
		if cfg.InputPort == "" || name == cfg.InputPort {
			port = name
			break
		}
	}
	if port == "" {
		fmt.Println("no matching input port")
		os.Exit(1)
	}

	ins := gomidi.GetInPorts()
	var stop func()
	for _, in := range ins {
		if in.String() != port {
			continue
		}
		stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			b := msg.Bytes()
			if len(b) < 3 {
				fmt.Printf("short msg % X\n", b)
				return
			}
			status, d1, d2 := b[0], b[1], b[2]
			switch {
			case status&0xF0 == 0x90 && d2 != 0:
				fmt.Printf("note on  ch=%d note=%d vel=%d -> channel %d, %dms\n",
					status&0x0F+1, d1, d2, d1%8, 1+int(d2)*99/127)
			case status&0xF0 == 0x80 || (status&0xF0 == 0x90 && d2 == 0):
				fmt.Printf("note off ch=%d note=%d (ignored by controller)\n", status&0x0F+1, d1)
			default:
				fmt.Printf("msg      status=0x%02X d1=%d d2=%d\n", status, d1, d2)
			}
		})
		break
	}
	if err != nil {
		fmt.Printf("listen: %v\n", err)
		os.Exit(1)
	}
	if stop == nil {
		fmt.Println("port vanished")
		os.Exit(1)
	}
	defer stop()

	fmt.Printf("monitoring %s (ctrl+c to stop)\n", port)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func fire() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}
	if cfg.OutputPort == "" {
		fmt.Println("no output port configured")
		os.Exit(1)
	}

	outs, err := midi.NewNoteOutputs(cfg.OutputPort, cfg.OutputChannel, cfg.Notes, cfg.IndicatorNote)
	if err != nil {
		fmt.Printf("open: %v\n", err)
		os.Exit(1)
	}

	for ch := 0; ch < len(cfg.Notes); ch++ {
		fmt.Printf("channel %d (note %d)\n", ch, cfg.Notes[ch])
		outs.Set(ch, true)
		time.Sleep(100 * time.Millisecond)
		outs.Set(ch, false)
		time.Sleep(150 * time.Millisecond)
	}
}
