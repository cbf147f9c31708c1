package trivia

import "errors"

var (
	ErrAlreadyMember   = errors.New("already a member of that team")
	ErrTeamFull        = errors.New("team is full")
	ErrNotOwner        = errors.New("not the owner of the team")
	ErrNotOnTeam       = errors.New("user is not on your team")
	ErrNotInTeam       = errors.New("not in a team")
	ErrInvalidTeamName = errors.New("invalid team name")

	ErrMalformedQuestion = errors.New("malformed question")
	ErrNoQuestions       = errors.New("no questions available")
	ErrNoSuchQuestion    = errors.New("no such question")

	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedCommand = errors.New("malformed command")
)
