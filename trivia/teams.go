package trivia

import (
	"slices"
	"sort"
	"strings"
	"unicode"
)

const maxTeamName = 25

// Team is a named group of players. Owner is always one of Members.
type Team struct {
	Owner   string   `json:"owner"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Registry tracks teams and the reverse user -> team index.
// A user is on at most one team; an empty team is deleted.
type Registry struct {
	Users map[string]string `json:"users"`
	Teams map[string]*Team  `json:"teams"`

	limit int
}

// LeaveResult describes what a departure did to the team.
type LeaveResult struct {
	Team      string
	NewOwner  string
	Disbanded bool
}

// JoinResult describes a successful join, including any team left on the way.
type JoinResult struct {
	Team    string
	Created bool
	Left    *LeaveResult
}

func NewRegistry(limit int) *Registry {
	return &Registry{
		Users: make(map[string]string),
		Teams: make(map[string]*Team),
		limit: limit,
	}
}

// SetLimit changes the maximum team size. Existing oversize teams are kept.
func (r *Registry) SetLimit(limit int) {
	r.limit = limit
}

// SanitizeTeamName keeps letters, digits and spaces, truncated to 25 characters.
func SanitizeTeamName(name string) string {
	var b strings.Builder
	n := 0
	for _, ch := range name {
		if n == maxTeamName {
			break
		}
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == ' ' {
			b.WriteRune(ch)
			n++
		}
	}
	return strings.TrimSpace(b.String())
}

// TeamOf returns the user's team name, or "" when the user is unaffiliated.
func (r *Registry) TeamOf(user string) string {
	name, ok := r.Users[user]
	if !ok {
		return ""
	}
	if _, exists := r.Teams[name]; !exists {
		return ""
	}
	return name
}

func (r *Registry) Team(name string) (*Team, bool) {
	t, ok := r.Teams[name]
	return t, ok
}

// Join puts user on the named team, creating it with user as owner if it
// does not exist. A user already on another team leaves it first.
func (r *Registry) Join(user, requested string) (JoinResult, error) {
	name := SanitizeTeamName(requested)
	if name == "" {
		return JoinResult{}, ErrInvalidTeamName
	}

	res := JoinResult{Team: name}
	team, ok := r.Teams[name]
	if ok {
		if slices.Contains(team.Members, user) {
			return JoinResult{}, ErrAlreadyMember
		}
		if r.limit > 0 && len(team.Members) >= r.limit {
			return JoinResult{}, ErrTeamFull
		}
	}

	if current := r.TeamOf(user); current != "" {
		left, err := r.Leave(user)
		if err != nil {
			return JoinResult{}, err
		}
		res.Left = &left
	}

	if !ok {
		team = &Team{Owner: user, Name: name}
		r.Teams[name] = team
		res.Created = true
	}
	team.Members = append(team.Members, user)
	r.Users[user] = name

	return res, nil
}

// Leave removes user from their team. When the owner leaves, ownership goes
// to the earliest remaining member by join order.
func (r *Registry) Leave(user string) (LeaveResult, error) {
	name := r.TeamOf(user)
	if name == "" {
		delete(r.Users, user)
		return LeaveResult{}, ErrNotInTeam
	}
	team := r.Teams[name]

	team.Members = slices.DeleteFunc(team.Members, func(m string) bool { return m == user })
	delete(r.Users, user)

	res := LeaveResult{Team: name}
	if len(team.Members) == 0 {
		delete(r.Teams, name)
		res.Disbanded = true
		return res, nil
	}
	if team.Owner == user {
		team.Owner = team.Members[0]
		res.NewOwner = team.Owner
	}
	return res, nil
}

// Kick removes target from the team owned by owner.
func (r *Registry) Kick(owner, target string) (LeaveResult, error) {
	name := r.TeamOf(owner)
	if name == "" {
		return LeaveResult{}, ErrNotInTeam
	}
	team := r.Teams[name]
	if team.Owner != owner {
		return LeaveResult{}, ErrNotOwner
	}
	if !slices.Contains(team.Members, target) {
		return LeaveResult{}, ErrNotOnTeam
	}
	return r.Leave(target)
}

// List returns the teams ordered by name.
func (r *Registry) List() []Team {
	out := make([]Team, 0, len(r.Teams))
	for _, t := range r.Teams {
		out = append(out, Team{Owner: t.Owner, Name: t.Name, Members: slices.Clone(t.Members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Normalize repairs a decoded document: every team has members and an owner
// among them, and Users is rebuilt from the member lists. A user listed on
// several teams stays on the first by name.
func (r *Registry) Normalize() {
	if r.Teams == nil {
		r.Teams = make(map[string]*Team)
	}
	names := make([]string, 0, len(r.Teams))
	for name := range r.Teams {
		names = append(names, name)
	}
	sort.Strings(names)

	users := make(map[string]string)
	for _, name := range names {
		t := r.Teams[name]
		if t == nil {
			delete(r.Teams, name)
			continue
		}
		t.Name = name
		t.Members = slices.DeleteFunc(t.Members, func(m string) bool {
			if m == "" {
				return true
			}
			if _, taken := users[m]; taken {
				return true
			}
			users[m] = name
			return false
		})
		if len(t.Members) == 0 {
			delete(r.Teams, name)
			continue
		}
		if !slices.Contains(t.Members, t.Owner) {
			t.Owner = t.Members[0]
		}
	}
	r.Users = users
}
