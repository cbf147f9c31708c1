package trivia

import (
	"sort"
)

// Ledger holds cumulative points per user and per team.
// A key exists only once a point award (or admin set) touched it.
type Ledger struct {
	User map[string]int `json:"user"`
	Team map[string]int `json:"team"`
}

// Standing is one row of a ranking.
type Standing struct {
	Name  string
	Score int
}

func NewLedger() *Ledger {
	return &Ledger{
		User: make(map[string]int),
		Team: make(map[string]int),
	}
}

// Award adds points to the user and, when team is non-empty, to the team.
func (l *Ledger) Award(user, team string, points int) {
	l.User[user] += points
	if team != "" {
		l.Team[team] += points
	}
}

func (l *Ledger) Get(user string) int {
	return l.User[user]
}

// Lookup reports whether the user has ever been scored.
func (l *Ledger) Lookup(user string) (int, bool) {
	score, ok := l.User[user]
	return score, ok
}

func (l *Ledger) Set(user string, score int) {
	l.User[user] = score
}

// RankTeams orders teams by score descending, then name descending.
func (l *Ledger) RankTeams() []Standing {
	return rank(l.Team)
}

// Clear drops every score. Callers archive first.
func (l *Ledger) Clear() {
	l.User = make(map[string]int)
	l.Team = make(map[string]int)
}

// Clone returns a deep copy, used when a snapshot must outlive later mutation.
func (l *Ledger) Clone() *Ledger {
	c := NewLedger()
	for k, v := range l.User {
		c.User[k] = v
	}
	for k, v := range l.Team {
		c.Team[k] = v
	}
	return c
}

func rank(scores map[string]int) []Standing {
	out := make([]Standing, 0, len(scores))
	for name, score := range scores {
		out = append(out, Standing{Name: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name > out[j].Name
	})
	return out
}
