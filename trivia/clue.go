package trivia

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
)

// ClueProvider turns an answer into progressively more revealing clues.
// The sequence is finite and cannot be rewound; SetAnswer starts a new one.
type ClueProvider interface {
	SetAnswer(answer string)
	CurrentClue() string
	GiveClue() string
	Answer() string
}

const (
	maskRune  = '_'
	clueTiers = 4
)

// Masker hides letters and digits of the answer and reveals a larger random
// share of them with every clue. The final tier still hides at least one
// character when the answer has more than one.
type Masker struct {
	rng      *rand.Rand
	answer   []rune
	order    []int
	revealed []bool
	tier     int
}

func NewMasker(rng *rand.Rand) *Masker {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	return &Masker{rng: rng}
}

func (m *Masker) SetAnswer(answer string) {
	m.answer = []rune(answer)
	m.revealed = make([]bool, len(m.answer))
	m.order = m.order[:0]
	for i, ch := range m.answer {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			m.order = append(m.order, i)
		}
	}
	m.rng.Shuffle(len(m.order), func(i, j int) { m.order[i], m.order[j] = m.order[j], m.order[i] })
	m.tier = 0
}

func (m *Masker) CurrentClue() string {
	var b strings.Builder
	for i, ch := range m.answer {
		if m.revealed[i] || !(unicode.IsLetter(ch) || unicode.IsDigit(ch)) {
			b.WriteRune(ch)
			continue
		}
		b.WriteRune(maskRune)
	}
	return b.String()
}

func (m *Masker) GiveClue() string {
	if m.tier < clueTiers-1 {
		m.tier++
		show := len(m.order) * m.tier / clueTiers
		if show >= len(m.order) && len(m.order) > 1 {
			show = len(m.order) - 1
		}
		for _, idx := range m.order[:show] {
			m.revealed[idx] = true
		}
	}
	return m.CurrentClue()
}

func (m *Masker) Answer() string {
	return string(m.answer)
}
