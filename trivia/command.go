package trivia

import (
	"fmt"
	"strings"
)

// Message is one line of chat as reported by the transport. Admin is the
// result of the transport's allow-list check.
type Message struct {
	User    string
	Channel string
	Text    string
	Private bool
	Admin   bool
}

// Kind identifies a chat command.
type Kind int

const (
	CmdScore Kind = iota + 1
	CmdStandings
	CmdHelp
	CmdJoin
	CmdLeave
	CmdKick
	CmdTeams
	CmdVoteSkip

	CmdDie
	CmdRestart
	CmdReset
	CmdSet
	CmdStart
	CmdStop
	CmdSave
	CmdSkip
	CmdAddQuestion
	CmdRemoveQuestion
	CmdQuestions
)

type commandSpec struct {
	kind    Kind
	admin   bool
	minArgs int
	usage   string
}

var commandTable = map[string]commandSpec{
	"score":     {kind: CmdScore},
	"standings": {kind: CmdStandings},
	"help":      {kind: CmdHelp},
	"join":      {kind: CmdJoin, minArgs: 1, usage: "join <team name>"},
	"leave":     {kind: CmdLeave},
	"kick":      {kind: CmdKick, minArgs: 1, usage: "kick <user>"},
	"teams":     {kind: CmdTeams},
	"next":      {kind: CmdVoteSkip},

	"die":       {kind: CmdDie, admin: true},
	"restart":   {kind: CmdRestart, admin: true},
	"reset":     {kind: CmdReset, admin: true},
	"set":       {kind: CmdSet, admin: true, minArgs: 2, usage: "set <user> <score>"},
	"start":     {kind: CmdStart, admin: true},
	"stop":      {kind: CmdStop, admin: true},
	"save":      {kind: CmdSave, admin: true},
	"skip":      {kind: CmdSkip, admin: true},
	"addq":      {kind: CmdAddQuestion, admin: true, minArgs: 1, usage: "addq <question>`<answer>"},
	"removeq":   {kind: CmdRemoveQuestion, admin: true, minArgs: 1, usage: "removeq <id>"},
	"questions": {kind: CmdQuestions, admin: true, usage: "questions [list|answers]"},
}

// Command is a parsed chat command. Rest is the raw text after the name.
type Command struct {
	Kind Kind
	Name string
	Args []string
	Rest string
}

// Admin reports whether the command needs administrator rights.
func (c Command) Admin() bool {
	return commandTable[c.Name].admin
}

// ParseCommand recognises "<prefix>name args". ok is false when text does not
// start with the prefix and should be treated as an answer. Unknown names yield ErrUnknownCommand; missing arguments yield
// an error wrapping ErrMalformedCommand with the usage line.
func ParseCommand(text, prefix string) (cmd Command, ok bool, err error) {
	text = strings.TrimSpace(text)
	body, found := strings.CutPrefix(text, prefix)
	if text == "" || prefix == "" || !found {
		return Command{}, false, nil
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Command{}, true, ErrUnknownCommand
	}
	name := strings.ToLower(fields[0])
	cmd = Command{Name: name, Args: fields[1:]}
	cmd.Rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(body), fields[0]))

	spec, known := commandTable[name]
	if !known {
		return cmd, true, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	cmd.Kind = spec.kind
	if len(cmd.Args) < spec.minArgs {
		return cmd, true, fmt.Errorf("%w: usage: %s", ErrMalformedCommand, spec.usage)
	}
	return cmd, true, nil
}
