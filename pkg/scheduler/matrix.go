package scheduler

import (
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

const secondsPerDay = 24 * 60 * 60

// Matrix holds assignment costs. Row i belongs to person i, column j to
// occurrence j; every row has the same length.
type Matrix [][]int64

// Rows returns the number of people
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of occurrences
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// DayDistance is the absolute distance between a and b in whole days,
// truncated toward zero. It works on Unix seconds because time.Duration
// saturates for dates more than 292 years apart.
func DayDistance(a, b time.Time) int64 {
	s := a.Unix() - b.Unix()
	if s < 0 {
		s = -s
	}
	return s / secondsPerDay
}

// BuildMatrix fills cost[i][j] with the day distance between person i's
// anchor date and occurrence j's date.
func BuildMatrix(people []models.Person, occurrences []models.Occurrence) Matrix {
	m := make(Matrix, len(people))
	for i, p := range people {
		row := make([]int64, len(occurrences))
		for j, o := range occurrences {
			row[j] = DayDistance(p.AnchorDate, o.Date)
		}
		m[i] = row
	}
	return m
}
