package trivia

import "slices"

// DefaultSkipVotes is the quorum of distinct voters that forces a skip.
const DefaultSkipVotes = 3

// VoteSession counts skip votes for the current question.
type VoteSession struct {
	threshold int
	voters    []string
}

// VoteResult reports the outcome of a single vote.
type VoteResult struct {
	Registered       bool
	Remaining        int
	ThresholdReached bool
}

func NewVoteSession(threshold int) *VoteSession {
	if threshold <= 0 {
		threshold = DefaultSkipVotes
	}
	return &VoteSession{threshold: threshold}
}

// CastSkip records user's vote. A repeat vote on the same question is not
// registered. The caller must skip and Reset once ThresholdReached is set.
func (v *VoteSession) CastSkip(user string) VoteResult {
	if slices.Contains(v.voters, user) {
		return VoteResult{Remaining: v.threshold - len(v.voters)}
	}
	v.voters = append(v.voters, user)
	remaining := v.threshold - len(v.voters)
	return VoteResult{
		Registered:       true,
		Remaining:        max(remaining, 0),
		ThresholdReached: remaining <= 0,
	}
}

func (v *VoteSession) Votes() int {
	return len(v.voters)
}

func (v *VoteSession) Threshold() int {
	return v.threshold
}

func (v *VoteSession) Reset() {
	v.voters = nil
}
