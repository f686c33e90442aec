package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"

	"solenoid-seq/generative"
)

// NoteOutputs drives an external drum module over MIDI in place of a
// solenoid rail: energizing a channel sends Note On for its mapped
// note, releasing it sends Note Off. Implements control.Outputs.
type NoteOutputs struct {
	send          func(gomidi.Message) error
	channel       uint8
	notes         [generative.NumChannels]uint8
	indicatorNote uint8 // 0 = indicator not mirrored to MIDI
}

// NewNoteOutputs opens the named output port and maps solenoid
// channels to notes.
func NewNoteOutputs(portName string, channel uint8, notes [generative.NumChannels]uint8, indicatorNote uint8) (*NoteOutputs, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() != portName {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open output %q: %w", portName, err)
		}
		return &NoteOutputs{
			send:          send,
			channel:       channel,
			notes:         notes,
			indicatorNote: indicatorNote,
		}, nil
	}
	return nil, fmt.Errorf("output port %q not found", portName)
}

// ListOutPorts returns the names of all MIDI output ports.
func ListOutPorts() []string {
	outs := gomidi.GetOutPorts()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// ListInPorts returns the names of all MIDI input ports.
func ListInPorts() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

func (o *NoteOutputs) Set(ch int, on bool) {
	if ch < 0 || ch >= generative.NumChannels {
		return
	}
	if on {
		o.send(gomidi.NoteOn(o.channel, o.notes[ch], 127))
	} else {
		o.send(gomidi.NoteOff(o.channel, o.notes[ch]))
	}
}

func (o *NoteOutputs) SetIndicator(on bool) {
	if o.indicatorNote == 0 {
		return
	}
	if on {
		o.send(gomidi.NoteOn(o.channel, o.indicatorNote, 64))
	} else {
		o.send(gomidi.NoteOff(o.channel, o.indicatorNote))
	}
}

// Close shuts down the MIDI driver; call once at process exit.
func Close() {
	gomidi.CloseDriver()
}
