package input

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"1", Command{Kind: KindBuzz, Player: 0}},
		{"9", Command{Kind: KindBuzz, Player: 8}},
		{"0", Command{Kind: KindBuzz, Player: 9}},
		{"a", Command{Kind: KindSelect, Choice: 0}},
		{"D", Command{Kind: KindSelect, Choice: 3}},
		{"", Command{Kind: KindSubmit}},
		{"enter", Command{Kind: KindSubmit}},
		{"esc", Command{Kind: KindCancel}},
		{"open 2 3", Command{Kind: KindOpen, Cat: 1, Row: 2}},
		{"ok", Command{Kind: KindCorrect}},
		{"bad", Command{Kind: KindIncorrect}},
		{"hide on", Command{Kind: KindHide, On: true}},
		{"hide OFF", Command{Kind: KindHide}},
		{"adj 2 -100", Command{Kind: KindAdjust, Player: 1, Value: -100}},
		{"+3", Command{Kind: KindAward, Player: 2, Value: 1}},
		{"-1", Command{Kind: KindAward, Player: 0, Value: -1}},
		{"set 1 600", Command{Kind: KindSetScore, Player: 0, Value: 600}},
		{"teams 4", Command{Kind: KindTeams, Value: 4}},
		{"reset", Command{Kind: KindReset}},
		{"load boards/final round.json", Command{Kind: KindLoad, Path: "boards/final round.json"}},
		{"?", Command{Kind: KindHelp}},
		{"quit", Command{Kind: KindQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"   ", ErrEmpty},
		{"e", ErrUnknown},
		{"dance", ErrUnknown},
		{"open 1", ErrUsage},
		{"open x 1", ErrUsage},
		{"hide maybe", ErrUsage},
		{"teams", ErrUsage},
		{"ok now", ErrUsage},
		{"load", ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) err = %v, want %v", tt.line, err, tt.want)
			}
		})
	}
}
