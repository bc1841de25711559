package commands

import (
	"errors"
	"math"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParseLine(t *testing.T) {
	tests := map[string]struct {
		line   string
		exp    Command
		expErr error
	}{
		"enter location": {
			line: "enterLocation house",
			exp:  Command{Name: EnterLocation, Target: "house"},
		},
		"case insensitive name": {
			line: "ENTERROAD village-forest",
			exp:  Command{Name: EnterRoad, Target: "village-forest"},
		},
		"move with fraction": {
			line: "move 12.5",
			exp:  Command{Name: Move, Distance: 12.5},
		},
		"negative move parses": {
			line: "move -3",
			exp:  Command{Name: Move, Distance: -3},
		},
		"turn around with surrounding space": {
			line: "  turnaround  ",
			exp:  Command{Name: TurnAround},
		},
		"empty line": {
			line:   "   ",
			expErr: ErrMalformed,
		},
		"unknown command": {
			line:   "fly north",
			expErr: ErrUnknownCommand,
		},
		"missing target": {
			line:   "enterLocation",
			expErr: ErrMalformed,
		},
		"non-numeric distance": {
			line:   "move far",
			expErr: ErrMalformed,
		},
		"infinite distance": {
			line:   "move +Inf",
			expErr: ErrMalformed,
		},
		"turn around takes no arguments": {
			line:   "turnAround now",
			expErr: ErrMalformed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLine(tt.line)

			if tt.expErr != nil {
				testutil.AssertEqual(t, "error kind", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "command", got, tt.exp)
		})
	}
}

func TestFrame_Command(t *testing.T) {
	tests := map[string]struct {
		data   string
		exp    Command
		expErr error
	}{
		"enter location": {
			data: `{"type":"enterLocation","location":"house"}`,
			exp:  Command{Name: EnterLocation, Target: "house"},
		},
		"enter road": {
			data: `{"type":"enterRoad","road":"village-forest"}`,
			exp:  Command{Name: EnterRoad, Target: "village-forest"},
		},
		"move": {
			data: `{"type":"move","distance":40}`,
			exp:  Command{Name: Move, Distance: 40},
		},
		"move zero": {
			data: `{"type":"move","distance":0}`,
			exp:  Command{Name: Move},
		},
		"turn around": {
			data: `{"type":"turnAround"}`,
			exp:  Command{Name: TurnAround},
		},
		"move without distance": {
			data:   `{"type":"move"}`,
			expErr: ErrMalformed,
		},
		"enter road without road": {
			data:   `{"type":"enterRoad"}`,
			expErr: ErrMalformed,
		},
		"auth is not a command": {
			data:   `{"type":"auth","id":"alice"}`,
			expErr: ErrUnknownCommand,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := DecodeFrame([]byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			got, err := f.Command()

			if tt.expErr != nil {
				testutil.AssertEqual(t, "error kind", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "command", got, tt.exp)
		})
	}
}

func TestDecodeFrame_Garbage(t *testing.T) {
	_, err := DecodeFrame([]byte(`{"type":`))
	testutil.AssertEqual(t, "malformed", errors.Is(err, ErrMalformed), true)
}

func TestCommand_Validate(t *testing.T) {
	tests := map[string]struct {
		cmd    Command
		expErr string
	}{
		"valid move": {
			cmd: Command{Name: Move, Distance: 1},
		},
		"nan move": {
			cmd:    Command{Name: Move, Distance: math.NaN()},
			expErr: "distance must be a finite number",
		},
		"unknown": {
			cmd:    Command{Name: "jump"},
			expErr: "unknown command",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestCommand_String(t *testing.T) {
	testutil.AssertEqual(t, "enter", Command{Name: EnterRoad, Target: "r1"}.String(), "enterRoad(r1)")
	testutil.AssertEqual(t, "move", Command{Name: Move, Distance: 2.5}.String(), "move(2.5)")
	testutil.AssertEqual(t, "turn", Command{Name: TurnAround}.String(), "turnAround()")
}
