package cli

import (
	"strings"

	"github.com/teranth/ltm/model"
	"github.com/teranth/ltm/suggest"
)

// Flags are the options recognized on any command.
type Flags struct {
	JSON       bool
	JSONPretty bool
	Force      bool
	Full       bool
	Status     string
	Project    string
	Sort       string
}

// Action is a canonical operation with its validated-later argument bag.
type Action struct {
	Op    Op
	Args  []string
	Flags Flags
}

// Resolve maps raw tokens to exactly one action, or fails with
// UnknownCommand. It performs no I/O: matching is case-insensitive over the
// static alias table, longest path first.
func (r *Registry) Resolve(tokens []string) (Action, string, error) {
	flags, positionals, err := parseFlags(tokens)
	if err != nil {
		return Action{}, "", err
	}
	if len(positionals) == 0 {
		return Action{}, "", r.unknown("")
	}

	if len(positionals) >= 2 {
		path := strings.ToLower(positionals[0] + " " + positionals[1])
		if spec, ok := r.byPath[path]; ok {
			return Action{Op: spec.Op, Args: positionals[2:], Flags: flags}, spec.Notice, nil
		}
	}

	path := strings.ToLower(positionals[0])
	if spec, ok := r.byPath[path]; ok {
		return Action{Op: spec.Op, Args: positionals[1:], Flags: flags}, spec.Notice, nil
	}

	return Action{}, "", r.unknown(strings.Join(positionals[:min(2, len(positionals))], " "))
}

func (r *Registry) unknown(input string) error {
	return &model.UnknownCommandError{
		Input:       input,
		Suggestions: suggest.Top(suggest.JaroWinkler{}, strings.ToLower(input), r.paths),
	}
}

func parseFlags(tokens []string) (Flags, []string, error) {
	var flags Flags
	var positionals []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "--") {
			positionals = append(positionals, tok)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") {
				i++
				return tokens[i], nil
			}
			return "", &model.ValidationError{
				Field:  "flag",
				Value:  tok,
				Reason: "missing value",
				Code:   "INVALID_FLAG",
			}
		}

		var err error
		switch name {
		case "json":
			flags.JSON = true
		case "json-pretty":
			flags.JSON = true
			flags.JSONPretty = true
		case "force":
			flags.Force = true
		case "full":
			flags.Full = true
		case "status":
			flags.Status, err = takeValue()
		case "project":
			flags.Project, err = takeValue()
		case "sort":
			flags.Sort, err = takeValue()
		default:
			err = &model.ValidationError{
				Field:  "flag",
				Value:  tok,
				Reason: "unknown flag",
				Code:   "INVALID_FLAG",
			}
		}
		if err != nil {
			return Flags{}, nil, err
		}
	}
	return flags, positionals, nil
}
