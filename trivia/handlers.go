package trivia

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

func (e *Engine) handle(msg Message) {
	cmd, ok, err := ParseCommand(msg.Text, e.cfg.Prefix)
	if !ok {
		e.answer(msg)
		return
	}
	dst := msg.Channel

	switch {
	case errors.Is(err, ErrUnknownCommand):
		e.sink.Say(dst, fmt.Sprintf("*looks at %s oddly*", msg.User))
		return
	case errors.Is(err, ErrMalformedCommand):
		e.sink.Say(dst, fmt.Sprintf("%s: %v", msg.User, err))
		return
	case err != nil:
		e.log.Warn("unexpected parse error", slog.Any("error", err))
		return
	}

	if cmd.Admin() && !msg.Admin {
		e.sink.Say(dst, fmt.Sprintf("%s: You don't tell me what to do.", msg.User))
		return
	}
	e.metrics.Command(cmd.Name)
	e.log.Debug("command", slog.String("user", msg.User), slog.String("command", cmd.Name))

	switch cmd.Kind {
	case CmdScore:
		e.cmdScore(msg)
	case CmdStandings:
		e.showStandings(dst)
	case CmdHelp:
		e.cmdHelp(msg)
	case CmdJoin:
		e.cmdJoin(msg, strings.Join(cmd.Args, " "))
	case CmdLeave:
		e.cmdLeave(msg)
	case CmdKick:
		e.cmdKick(msg, cmd.Args[0])
	case CmdTeams:
		e.cmdTeams(dst)
	case CmdVoteSkip:
		e.voteSkip(msg)
	case CmdDie:
		e.stop()
		e.save()
		e.announce("This is triviabot, signing off.")
		e.requestShutdown(ShutdownDie)
	case CmdRestart:
		e.disarm()
		e.save()
		e.announce("Triviabot restarting.")
		e.requestShutdown(ShutdownRestart)
	case CmdReset:
		e.cmdReset(msg)
	case CmdSet:
		e.cmdSet(msg, cmd.Args[0], cmd.Args[1])
	case CmdStart:
		e.start()
	case CmdStop:
		e.stop()
	case CmdSave:
		e.save()
		e.sink.Whisper(msg.User, "Scores have been saved.")
	case CmdSkip:
		e.skip("admin", dst)
	case CmdAddQuestion, CmdRemoveQuestion, CmdQuestions:
		e.cmdQuestionBank(msg, cmd)
	}
}

func (e *Engine) cmdScore(msg Message) {
	score, ok := e.ledger.Lookup(msg.User)
	if !ok {
		e.sink.Whisper(msg.User, "You aren't in my database.")
		return
	}
	e.sink.Whisper(msg.User, fmt.Sprintf("Your current score is: %d", score))
}

func (e *Engine) showStandings(dst string) {
	standings := e.ledger.RankTeams()
	if len(standings) == 0 {
		e.sink.Say(dst, "No team has scored yet.")
		return
	}
	e.sink.Say(dst, "The current trivia standings are:")
	for i, s := range standings {
		e.sink.Say(dst, fmt.Sprintf("%d: %s: %d", i+1, s.Name, s.Score))
	}
}

func (e *Engine) cmdHelp(msg Message) {
	dst := msg.Channel
	if e.cfg.Owner != "" {
		e.sink.Say(dst, fmt.Sprintf("I'm %s's trivia bot.", e.cfg.Owner))
	}
	e.sink.Say(dst, "Commands: score, standings, help, join <team>, leave, kick <user>, teams, next")
	if msg.Admin {
		e.sink.Say(dst, "Admin commands: die, restart, reset, set <user> <score>, start, stop, save, skip, "+
			"addq <question>`<answer>, removeq <id>, questions [list|answers]")
	}
}

func (e *Engine) cmdJoin(msg Message, name string) {
	dst := msg.Channel
	res, err := e.teams.Join(msg.User, name)
	switch {
	case errors.Is(err, ErrInvalidTeamName):
		e.sink.Say(dst, fmt.Sprintf("%s: team names may only contain letters, numbers and spaces.", msg.User))
		return
	case errors.Is(err, ErrAlreadyMember):
		e.sink.Say(dst, fmt.Sprintf("%s: you are already in %q.", msg.User, SanitizeTeamName(name)))
		return
	case errors.Is(err, ErrTeamFull):
		e.sink.Say(dst, fmt.Sprintf("%s: Team %q is full, someone needs to leave before you can join.",
			msg.User, SanitizeTeamName(name)))
		return
	case err != nil:
		e.log.Error("join failed", slog.String("user", msg.User), slog.Any("error", err))
		return
	}

	if res.Left != nil {
		e.sayLeave(dst, msg.User, *res.Left)
	}
	e.sink.Say(dst, fmt.Sprintf("%s has joined %q.", msg.User, res.Team))
	e.save()
}

func (e *Engine) cmdLeave(msg Message) {
	res, err := e.teams.Leave(msg.User)
	if err != nil {
		e.sink.Say(msg.Channel, fmt.Sprintf("%s: you are not in a team.", msg.User))
		return
	}
	e.sayLeave(msg.Channel, msg.User, res)
	e.save()
}

func (e *Engine) cmdKick(msg Message, target string) {
	dst := msg.Channel
	res, err := e.teams.Kick(msg.User, target)
	switch {
	case errors.Is(err, ErrNotInTeam):
		e.sink.Say(dst, fmt.Sprintf("%s: you are not in a team.", msg.User))
		return
	case errors.Is(err, ErrNotOwner):
		e.sink.Say(dst, fmt.Sprintf("%s: you are not the owner of %q!", msg.User, e.teams.TeamOf(msg.User)))
		return
	case errors.Is(err, ErrNotOnTeam):
		e.sink.Say(dst, fmt.Sprintf("%s: %s is not in your team!", msg.User, target))
		return
	case err != nil:
		e.log.Error("kick failed", slog.String("user", msg.User), slog.Any("error", err))
		return
	}
	e.sayLeave(dst, target, res)
	e.save()
}

func (e *Engine) sayLeave(dst, user string, res LeaveResult) {
	if res.NewOwner != "" {
		e.sink.Say(dst, fmt.Sprintf("%s left %q, %s is the new owner.", user, res.Team, res.NewOwner))
		return
	}
	e.sink.Say(dst, fmt.Sprintf("%s left %q.", user, res.Team))
}

func (e *Engine) cmdTeams(dst string) {
	teams := e.teams.List()
	if len(teams) == 0 {
		e.sink.Say(dst, "There are no teams yet.")
		return
	}
	for _, t := range teams {
		e.sink.Say(dst, fmt.Sprintf("%s: %s", t.Name, strings.Join(t.Members, ", ")))
	}
}

// cmdReset archives the ledger and clears it. Nothing is cleared when the
// archive cannot be written.
func (e *Engine) cmdReset(msg Message) {
	path, err := e.store.Archive(e.ledger)
	if err != nil {
		e.log.Error("failed to archive scores", slog.Any("error", err))
		e.sink.Whisper(msg.User, "Could not archive the scores, nothing was reset.")
		return
	}
	e.ledger.Clear()
	e.save()
	e.log.Info("scores reset", slog.String("archive", path))
	e.sink.Whisper(msg.User, "Scores have been reset.")
}

func (e *Engine) cmdSet(msg Message, user, value string) {
	score, err := strconv.Atoi(value)
	if err != nil {
		e.sink.Whisper(msg.User, user+" not in scores database.")
		return
	}
	e.ledger.Set(user, score)
	e.save()
	e.sink.Whisper(msg.User, fmt.Sprintf("%s score set to %d", user, score))
}

func (e *Engine) cmdQuestionBank(msg Message, cmd Command) {
	dst := msg.Channel
	editor, ok := e.source.(QuestionEditor)
	if !ok {
		e.sink.Say(dst, "This question bank cannot be edited from chat.")
		return
	}

	switch cmd.Kind {
	case CmdAddQuestion:
		q, err := ParseQuestion(cmd.Rest)
		if err != nil {
			e.sink.Say(dst, "Usage: addq <question>`<answer>")
			return
		}
		id, err := editor.AddQuestion(e.ctx, q)
		if err != nil {
			e.log.Error("failed to add question", slog.Any("error", err))
			e.sink.Say(dst, "Error adding question.")
			return
		}
		e.sink.Say(dst, fmt.Sprintf("Question %d added.", id))
	case CmdRemoveQuestion:
		id, err := strconv.ParseInt(cmd.Args[0], 10, 64)
		if err != nil {
			e.sink.Say(dst, "Invalid question ID.")
			return
		}
		err = editor.RemoveQuestion(e.ctx, id)
		if errors.Is(err, ErrNoSuchQuestion) {
			e.sink.Say(dst, fmt.Sprintf("Question %d not in database.", id))
			return
		}
		if err != nil {
			e.log.Error("failed to remove question", slog.Int64("id", id), slog.Any("error", err))
			e.sink.Say(dst, "Error removing question.")
			return
		}
		e.sink.Say(dst, fmt.Sprintf("Question %d removed.", id))
	case CmdQuestions:
		if len(cmd.Args) > 0 {
			e.listQuestions(msg, editor, cmd.Args[0])
			return
		}
		n, err := editor.CountQuestions(e.ctx)
		if err != nil {
			e.log.Error("failed to count questions", slog.Any("error", err))
			e.sink.Say(dst, "Error fetching questions.")
			return
		}
		e.sink.Say(dst, fmt.Sprintf("There are %d questions in the bank.", n))
	}
}

// listQuestions whispers the bank to the admin. Answers are redacted unless
// mode is "answers".
func (e *Engine) listQuestions(msg Message, editor QuestionEditor, mode string) {
	mode = strings.ToLower(mode)
	if mode != "list" && mode != "answers" {
		e.sink.Say(msg.Channel, "Usage: questions [list|answers]")
		return
	}
	entries, err := editor.ListQuestions(e.ctx)
	if err != nil {
		e.log.Error("failed to list questions", slog.Any("error", err))
		e.sink.Say(msg.Channel, "Error fetching questions.")
		return
	}
	if len(entries) == 0 {
		e.sink.Whisper(msg.User, "No questions in the bank.")
		return
	}
	for _, q := range entries {
		answer := "REDACTED"
		if mode == "answers" {
			answer = q.Answer
		}
		e.sink.Whisper(msg.User, fmt.Sprintf("%d: %s (answer: %s)", q.ID, q.Text, answer))
	}
}
