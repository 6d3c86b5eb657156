package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

// ValidateInput checks a JSON scheduling request without solving it. It
// reports how many slots and occurrences the request would produce.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationResult{Error: err.Error()})
		return
	}

	invalid := func(err error) {
		c.JSON(http.StatusOK, models.ValidationResult{Error: err.Error(), People: len(input.People)})
	}

	req, err := h.parseCommon(input.Start, input.End, input.Weekday, input.Holidays)
	if err != nil {
		invalid(err)
		return
	}
	if req.people, err = parsePeople(input.People); err != nil {
		invalid(err)
		return
	}

	slots, occurrences, err := scheduler.NewScheduler(req.people, req.window, req.holidays, req.weekday).Occurrences()
	if err != nil {
		invalid(err)
		return
	}

	c.JSON(http.StatusOK, models.ValidationResult{
		Valid:       true,
		People:      len(req.people),
		Slots:       len(slots),
		Replication: calendar.ReplicationFactor(len(slots), len(req.people)),
		Occurrences: len(occurrences),
	})
}
