package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RoundRunning(true)
	c.QuestionAsked()
	c.Answered(5)
	c.Answered(3)
	c.Skipped("vote")
	c.Saved(nil)
	c.Saved(errors.New("disk full"))
	c.Command("join")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.roundRunning))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.questions))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.answered))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.points))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skips.WithLabelValues("vote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.saves.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("join")))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RoundRunning(true)
		c.QuestionAsked()
		c.MalformedQuestion()
		c.Answered(1)
		c.Unanswered()
		c.Skipped("admin")
		c.SkipVote()
		c.Saved(nil)
		c.Command("x")
	})
}

func TestRouter(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.QuestionAsked()
	r := NewRouter(c)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "trivia_questions_asked_total 1"))
}
