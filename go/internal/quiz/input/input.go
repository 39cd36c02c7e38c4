// Package input parses the operator's console commands. Team, category and
// row numbers are typed 1-based and returned 0-based.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a parsed command.
type Kind string

const (
	KindBuzz      Kind = "buzz"
	KindSelect    Kind = "select"
	KindSubmit    Kind = "submit"
	KindCancel    Kind = "cancel"
	KindOpen      Kind = "open"
	KindCorrect   Kind = "correct"
	KindIncorrect Kind = "incorrect"
	KindHide      Kind = "hide"
	KindAdjust    Kind = "adjust"
	KindAward     Kind = "award"
	KindSetScore  Kind = "set"
	KindTeams     Kind = "teams"
	KindReset     Kind = "reset"
	KindLoad      Kind = "load"
	KindHelp      Kind = "help"
	KindQuit      Kind = "quit"
)

var (
	ErrEmpty   = errors.New("empty command")
	ErrUnknown = errors.New("unknown command")
	ErrUsage   = errors.New("invalid arguments")
)

// Command is one parsed line.
type Command struct {
	Kind   Kind
	Player int
	Choice int
	Cat    int
	Row    int
	Value  int
	On     bool
	Path   string
}

// Help lists the accepted commands.
const Help = `1-9, 0        buzz team 1-10
a-d           select answer
enter         submit selected answer
esc           cancel question
open C R      open category C, row R
ok | bad      moderator verdict
hide on|off   hide or show answers
adj T D       add D points to team T
+T | -T       add or subtract the question value for team T
set T S       set team T score to S
teams N       set team count
reset         reset the game
load PATH     import a board file
quit`

// Parse parses one input line. A blank line is submit, like the enter key.
func Parse(line string) (Command, error) {
	raw := strings.TrimRight(line, "\r\n")
	if raw == "" {
		return Command{Kind: KindSubmit}, nil
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	word := strings.ToLower(fields[0])
	args := fields[1:]

	if len(args) == 0 {
		if cmd, ok := parseKey(word); ok {
			return cmd, nil
		}
	}

	switch word {
	case "enter", "submit":
		return noArgs(KindSubmit, args)
	case "esc", "cancel":
		return noArgs(KindCancel, args)
	case "ok", "correct":
		return noArgs(KindCorrect, args)
	case "bad", "incorrect":
		return noArgs(KindIncorrect, args)
	case "reset":
		return noArgs(KindReset, args)
	case "help", "?":
		return noArgs(KindHelp, args)
	case "quit", "exit", "q":
		return noArgs(KindQuit, args)
	case "open":
		n, err := ints(args, 2)
		if err != nil {
			return Command{}, fmt.Errorf("open: %w", err)
		}
		return Command{Kind: KindOpen, Cat: n[0] - 1, Row: n[1] - 1}, nil
	case "hide":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("hide: %w", ErrUsage)
		}
		switch strings.ToLower(args[0]) {
		case "on":
			return Command{Kind: KindHide, On: true}, nil
		case "off":
			return Command{Kind: KindHide, On: false}, nil
		}
		return Command{}, fmt.Errorf("hide %q: %w", args[0], ErrUsage)
	case "adj":
		n, err := ints(args, 2)
		if err != nil {
			return Command{}, fmt.Errorf("adj: %w", err)
		}
		return Command{Kind: KindAdjust, Player: n[0] - 1, Value: n[1]}, nil
	case "set":
		n, err := ints(args, 2)
		if err != nil {
			return Command{}, fmt.Errorf("set: %w", err)
		}
		return Command{Kind: KindSetScore, Player: n[0] - 1, Value: n[1]}, nil
	case "teams":
		n, err := ints(args, 1)
		if err != nil {
			return Command{}, fmt.Errorf("teams: %w", err)
		}
		return Command{Kind: KindTeams, Value: n[0]}, nil
	case "load":
		path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), fields[0]))
		if path == "" {
			return Command{}, fmt.Errorf("load: %w", ErrUsage)
		}
		return Command{Kind: KindLoad, Path: path}, nil
	}

	if len(args) == 0 && len(word) > 1 && (word[0] == '+' || word[0] == '-') {
		team, err := strconv.Atoi(word[1:])
		if err == nil {
			mult := 1
			if word[0] == '-' {
				mult = -1
			}
			return Command{Kind: KindAward, Player: team - 1, Value: mult}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknown, fields[0])
}

// parseKey handles the single-key shortcuts.
func parseKey(word string) (Command, bool) {
	if len(word) != 1 {
		return Command{}, false
	}
	k := word[0]
	switch {
	case k == '0':
		return Command{Kind: KindBuzz, Player: 9}, true
	case k >= '1' && k <= '9':
		return Command{Kind: KindBuzz, Player: int(k - '1')}, true
	case k >= 'a' && k <= 'd':
		return Command{Kind: KindSelect, Choice: int(k - 'a')}, true
	}
	return Command{}, false
}

func noArgs(k Kind, args []string) (Command, error) {
	if len(args) != 0 {
		return Command{}, fmt.Errorf("%s: %w", k, ErrUsage)
	}
	return Command{Kind: k}, nil
}

func ints(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, ErrUsage
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", a, ErrUsage)
		}
		out[i] = n
	}
	return out, nil
}
