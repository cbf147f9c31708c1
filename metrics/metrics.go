// Package metrics exposes prometheus counters for the trivia engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trivia"

// Collector groups the engine's collectors. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	roundRunning prometheus.Gauge
	questions    prometheus.Counter
	malformed    prometheus.Counter
	answered     prometheus.Counter
	points       prometheus.Counter
	unanswered   prometheus.Counter
	skips        *prometheus.CounterVec
	votes        prometheus.Counter
	saves        *prometheus.CounterVec
	commands     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Collector {
	c := &Collector{
		gatherer: reg,
		roundRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "round_running",
			Help: "1 while a round is in progress.",
		}),
		questions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "questions_asked_total",
			Help: "Questions drawn and shown to players.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "questions_malformed_total",
			Help: "Question bank entries discarded because they could not be parsed.",
		}),
		answered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "answers_correct_total",
			Help: "Questions answered correctly.",
		}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "points_awarded_total",
			Help: "Points handed out for correct answers.",
		}),
		unanswered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "questions_unanswered_total",
			Help: "Questions whose clues ran out.",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "questions_skipped_total",
			Help: "Questions skipped, by cause.",
		}, []string{"cause"}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "skip_votes_total",
			Help: "Registered skip votes.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "saves_total",
			Help: "Score and team saves, by result.",
		}, []string{"result"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "commands_total",
			Help: "Chat commands handled, by name.",
		}, []string{"command"}),
	}
	reg.MustRegister(
		c.roundRunning, c.questions, c.malformed, c.answered, c.points,
		c.unanswered, c.skips, c.votes, c.saves, c.commands,
	)
	return c
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) RoundRunning(running bool) {
	if c == nil {
		return
	}
	if running {
		c.roundRunning.Set(1)
		return
	}
	c.roundRunning.Set(0)
}

func (c *Collector) QuestionAsked() {
	if c != nil {
		c.questions.Inc()
	}
}

func (c *Collector) MalformedQuestion() {
	if c != nil {
		c.malformed.Inc()
	}
}

func (c *Collector) Answered(points int) {
	if c == nil {
		return
	}
	c.answered.Inc()
	c.points.Add(float64(points))
}

func (c *Collector) Unanswered() {
	if c != nil {
		c.unanswered.Inc()
	}
}

// Skipped counts a skip; cause is "admin" or "vote".
func (c *Collector) Skipped(cause string) {
	if c != nil {
		c.skips.WithLabelValues(cause).Inc()
	}
}

func (c *Collector) SkipVote() {
	if c != nil {
		c.votes.Inc()
	}
}

func (c *Collector) Saved(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.saves.WithLabelValues("error").Inc()
		return
	}
	c.saves.WithLabelValues("ok").Inc()
}

func (c *Collector) Command(name string) {
	if c != nil {
		c.commands.WithLabelValues(name).Inc()
	}
}
