package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/roster"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

func TestObserveRun(t *testing.T) {
	r := NewRecorder()
	plan := &scheduler.Plan{
		Schedule: []models.ScheduleEntry{{Days: 3}, {Days: 152}},
		Solution: scheduler.Solution{Total: 155},
	}
	r.ObserveRun(plan, nil, 2*time.Millisecond)
	r.ObserveRun(nil, fmt.Errorf("x: %w", calendar.ErrNoEligibleSlots), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("no_eligible_slots")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.people))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "rota_schedule_runs_total")
}

func TestOutcome(t *testing.T) {
	cases := map[error]string{
		nil:                           "ok",
		calendar.ErrInvalidWindow:     "invalid_window",
		calendar.ErrInvalidWeekday:    "invalid_input",
		calendar.ErrInsufficientSlots: "insufficient_slots",
		scheduler.ErrInfeasibleMatrix: "infeasible_matrix",
		roster.ErrMalformedRoster:     "malformed_roster",
		errors.New("boom"):            "error",
	}
	for err, want := range cases {
		assert.Equal(t, want, Outcome(err))
	}
}
