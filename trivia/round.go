package trivia

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// clueSchedule is the point value of an answer given while clue tier i is showing.
var clueSchedule = [clueTiers]int{5, 3, 2, 1}

// maxDrawAttempts bounds how many malformed entries one tick may discard.
const maxDrawAttempts = 50

// roundState is the question/clue position. clueIndex 0 means no question is
// open; 1..4 means tier clueIndex-1 is showing.
type roundState struct {
	clueIndex      int
	points         int
	questionNumber int
	running        bool
}

func (e *Engine) start() {
	if e.round.running {
		return
	}
	e.round = roundState{running: true, questionNumber: e.resume.QuestionNumber}
	e.resume = Checkpoint{}
	e.question = nil
	e.votes.Reset()

	e.announce("Starting a new round!")
	e.metrics.RoundRunning(true)
	e.saveCheckpoint()
	e.reschedule(e.cfg.ClueInterval)
}

func (e *Engine) stop() {
	if !e.round.running {
		return
	}
	e.disarm()
	e.round = roundState{}
	e.question = nil
	e.votes.Reset()

	e.announce("Thanks for playing!")
	e.showStandings(e.cfg.GameChannel)
	e.announce("Scores have been saved, and see you next game!")
	e.save()
	e.metrics.RoundRunning(false)
	e.saveCheckpoint()
}

func (e *Engine) tick() {
	if !e.round.running {
		return
	}

	switch {
	case e.round.clueIndex == 0:
		if e.round.questionNumber >= e.cfg.QuestionsPerRound {
			e.completeRound()
			return
		}
		q, err := e.draw()
		if err != nil {
			e.log.Error("failed to draw question", slog.Any("error", err))
			e.reschedule(e.cfg.ClueInterval)
			return
		}
		e.round.questionNumber++
		e.question = &q
		e.votes.Reset()
		e.clues.SetAnswer(q.Answer)
		e.round.points = clueSchedule[0]
		e.metrics.QuestionAsked()

		e.announce(fmt.Sprintf("Next Question [%d/%d]:", e.round.questionNumber, e.cfg.QuestionsPerRound))
		e.announce(q.Text)
		e.announce("Clue: " + e.clues.CurrentClue())
		e.round.clueIndex = 1
		e.saveCheckpoint()
		e.reschedule(e.cfg.ClueInterval)

	case e.round.clueIndex < clueTiers:
		e.round.points = clueSchedule[e.round.clueIndex]
		e.announce(fmt.Sprintf("Question [%d/%d]:", e.round.questionNumber, e.cfg.QuestionsPerRound))
		e.announce(e.question.Text)
		e.announce("Clue: " + e.clues.GiveClue())
		e.round.clueIndex++
		e.reschedule(e.cfg.ClueInterval)

	default:
		e.announce("No one got it. The answer was: " + e.clues.Answer())
		e.metrics.Unanswered()
		e.finishQuestion(e.cfg.QuestionWait)
	}
}

// draw fetches a question, discarding malformed entries.
func (e *Engine) draw() (Question, error) {
	for range maxDrawAttempts {
		q, err := e.source.Random(e.ctx)
		if err == nil {
			return q, nil
		}
		if !errors.Is(err, ErrMalformedQuestion) {
			return Question{}, err
		}
		e.metrics.MalformedQuestion()
		e.log.Warn("broken question", slog.Any("error", err))
	}
	return Question{}, fmt.Errorf("%w: %d malformed entries in a row", ErrNoQuestions, maxDrawAttempts)
}

// finishQuestion closes the open question and either waits for the next one
// or ends the round.
func (e *Engine) finishQuestion(wait time.Duration) {
	e.question = nil
	e.round.clueIndex = 0
	e.round.points = 0
	e.votes.Reset()

	if e.round.questionNumber >= e.cfg.QuestionsPerRound {
		e.completeRound()
		return
	}
	e.announce(fmt.Sprintf("Next question in %d seconds.", int(wait.Round(time.Second)/time.Second)))
	e.reschedule(wait)
}

func (e *Engine) completeRound() {
	e.announce("Round complete!")
	e.stop()
}

func (e *Engine) answer(msg Message) {
	if !e.round.running || e.question == nil || !e.question.Matches(msg.Text) {
		return
	}
	if msg.Channel != e.cfg.GameChannel {
		e.sink.Say(msg.Channel, "I'm sorry, answers must be given in the game channel.")
		return
	}

	team := e.teams.TeamOf(msg.User)
	points := e.round.points
	if team != "" {
		e.announce(fmt.Sprintf("%s (%s) GOT IT!", strings.ToUpper(team), strings.ToUpper(msg.User)))
	} else {
		e.announce(fmt.Sprintf("%s GOT IT!", strings.ToUpper(msg.User)))
	}
	e.announce("If there was any doubt, the correct answer was: " + e.clues.Answer())

	e.ledger.Award(msg.User, team, points)
	if points == 1 {
		e.announce("1 point has been added to your score!")
	} else {
		e.announce(fmt.Sprintf("%d points have been added to your score!", points))
	}
	e.metrics.Answered(points)
	e.log.Info("question answered",
		slog.String("user", msg.User),
		slog.String("team", team),
		slog.Int("points", points),
	)

	e.save()
	e.finishQuestion(e.cfg.AnswerWait)
}

// skip abandons the open question the same way running out of clues does.
func (e *Engine) skip(cause, dst string) {
	if !e.round.running {
		e.sink.Say(dst, "We are not playing right now.")
		return
	}
	if e.question == nil {
		e.sink.Say(dst, "There is no question to skip.")
		return
	}
	e.announce("Question has been skipped. The answer was: " + e.clues.Answer())
	e.metrics.Skipped(cause)
	e.finishQuestion(e.cfg.QuestionWait)
}

func (e *Engine) voteSkip(msg Message) {
	if !e.round.running {
		e.sink.Say(msg.Channel, "We aren't playing right now.")
		return
	}
	if e.question == nil {
		e.sink.Say(msg.Channel, "There is no question to skip.")
		return
	}

	res := e.votes.CastSkip(msg.User)
	if !res.Registered {
		e.announce(fmt.Sprintf("You already voted, %s, give someone else a chance to hate this question.", msg.User))
		return
	}
	e.metrics.SkipVote()
	if res.ThresholdReached {
		e.votes.Reset()
		e.skip("vote", msg.Channel)
		return
	}
	e.announce(fmt.Sprintf("%s, you have voted. %d more votes needed to skip.", msg.User, res.Remaining))
}
