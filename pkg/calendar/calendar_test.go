package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSlotsExample(t *testing.T) {
	w := models.Window{Start: date(2020, 1, 6), End: date(2020, 1, 20)}
	slots, err := GenerateSlots(w, nil, models.Monday)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2020, 1, 6), date(2020, 1, 13), date(2020, 1, 20)}, slots)
}

func TestGenerateSlotsWeekdayMatches(t *testing.T) {
	w := models.Window{Start: date(2018, 10, 1), End: date(2019, 6, 25)}
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		slots, err := GenerateSlots(w, nil, wd)
		require.NoError(t, err)
		require.NotEmpty(t, slots)

		first := slots[0]
		assert.False(t, first.Before(w.Start))
		assert.Less(t, first.Sub(w.Start), 7*24*time.Hour)
		for i, s := range slots {
			assert.Equal(t, wd, models.ISOWeekdayOf(s), "slot %s", s)
			assert.False(t, s.After(w.End))
			if i > 0 {
				assert.Equal(t, 7*24*time.Hour, s.Sub(slots[i-1]))
			}
		}
	}
}

func TestGenerateSlotsHolidaysExcluded(t *testing.T) {
	holidays := []models.HolidayRule{{Day: 24, Month: 12}, {Day: 31, Month: 12}, {Day: 29, Month: 4}}
	w := models.Window{Start: date(2018, 11, 26), End: date(2019, 6, 25)}
	for wd := models.Monday; wd <= models.Sunday; wd++ {
		slots, err := GenerateSlots(w, holidays, wd)
		require.NoError(t, err)
		for _, s := range slots {
			for _, h := range holidays {
				assert.False(t, s.Day() == h.Day && s.Month() == h.Month, "slot %s hits holiday", s)
			}
		}
	}
}

func TestGenerateSlotsHolidayRemovesSingleSlot(t *testing.T) {
	w := models.Window{Start: date(2018, 11, 26), End: date(2019, 6, 25)}
	all, err := GenerateSlots(w, nil, models.Monday)
	require.NoError(t, err)

	// 24.12.2018 is a Monday.
	got, err := GenerateSlots(w, []models.HolidayRule{{Day: 24, Month: 12}}, models.Monday)
	require.NoError(t, err)
	require.Len(t, got, len(all)-1)

	var want []time.Time
	for _, s := range all {
		if !s.Equal(date(2018, 12, 24)) {
			want = append(want, s)
		}
	}
	assert.Equal(t, want, got)
}

func TestGenerateSlotsOneWeekBoundary(t *testing.T) {
	w := models.Window{Start: date(2020, 1, 6), End: date(2020, 1, 12)}
	slots, err := GenerateSlots(w, nil, models.Monday)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2020, 1, 6)}, slots)
}

func TestGenerateSlotsInvalidWindow(t *testing.T) {
	cases := map[string]models.Window{
		"reversed":  {Start: date(2020, 2, 1), End: date(2020, 1, 1)},
		"two years": {Start: date(2020, 10, 1), End: date(2022, 6, 1)},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := GenerateSlots(w, nil, models.Monday)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestGenerateSlotsNoEligible(t *testing.T) {
	w := models.Window{Start: date(2020, 1, 7), End: date(2020, 1, 10)}
	_, err := GenerateSlots(w, nil, models.Monday)
	assert.ErrorIs(t, err, ErrNoEligibleSlots)

	w = models.Window{Start: date(2019, 12, 24), End: date(2019, 12, 24)}
	_, err = GenerateSlots(w, []models.HolidayRule{{Day: 24, Month: 12}}, models.Tuesday)
	assert.ErrorIs(t, err, ErrNoEligibleSlots)
}

func TestGenerateSlotsInvalidWeekday(t *testing.T) {
	w := models.Window{Start: date(2020, 1, 6), End: date(2020, 1, 20)}
	_, err := GenerateSlots(w, nil, 8)
	assert.ErrorIs(t, err, ErrInvalidWeekday)
	_, err = GenerateSlots(w, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestResolveHolidaysLeapDay(t *testing.T) {
	got, err := ResolveHolidays([]models.HolidayRule{{Day: 29, Month: 2}}, 2019)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2020, 2, 29)}, got)
}

func TestExpand(t *testing.T) {
	slots := []time.Time{date(2020, 1, 6), date(2020, 1, 13), date(2020, 1, 20)}
	for people := 0; people <= 10; people++ {
		occ, err := Expand(slots, people)
		require.NoError(t, err)
		k := (people + len(slots) - 1) / len(slots)
		require.Len(t, occ, k*len(slots))
		assert.GreaterOrEqual(t, len(occ), people)
		for i, o := range occ {
			assert.Equal(t, i, o.Index)
			assert.Equal(t, i/k, o.SlotIndex)
			assert.Equal(t, i%k, o.Seat)
			assert.Equal(t, slots[o.SlotIndex], o.Date)
		}
	}
}

func TestExpandNoSlots(t *testing.T) {
	_, err := Expand(nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientSlots)
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]models.ISOWeekday{
		"": models.Monday, "1": models.Monday, "mon": models.Monday,
		"Sunday": models.Sunday, "7": models.Sunday, " thu ": models.Thursday,
	} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "8", "funday"} {
		_, err := ParseWeekday(in)
		assert.ErrorIs(t, err, ErrInvalidWeekday, in)
	}
}

func TestParseHolidays(t *testing.T) {
	got, err := ParseHolidays([]string{"24.12", "31.12.", "29/4", " "})
	require.NoError(t, err)
	assert.Equal(t, []models.HolidayRule{{Day: 24, Month: 12}, {Day: 31, Month: 12}, {Day: 29, Month: 4}}, got)

	for _, in := range []string{"31.4", "0.1", "1.13", "x", "1.2.3"} {
		_, err := ParseHoliday(in)
		assert.ErrorIs(t, err, ErrInvalidHoliday, in)
	}
}
