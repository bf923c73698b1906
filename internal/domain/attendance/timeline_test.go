package attendance

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDay = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func event(t EventType, hour, min, seq int) TimelineEvent {
	return TimelineEvent{
		ID:        "ev-" + strconv.Itoa(seq),
		Type:      t,
		Timestamp: at(hour, min),
		Seq:       seq,
	}
}

func manualEvent(t EventType, hour, min, seq int) TimelineEvent {
	ev := event(t, hour, min, seq)
	ev.Manual = true
	return ev
}

func TestValidateAppend_InvalidType(t *testing.T) {
	err := ValidateAppend(nil, TimelineEvent{Type: EventType("LUNCH"), Timestamp: at(9, 0)})
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestValidateAppend_FirstPunchIn(t *testing.T) {
	err := ValidateAppend(nil, event(EventPunchIn, 9, 0, 0))
	assert.NoError(t, err)
}

func TestValidateAppend_DuplicatePunchIn(t *testing.T) {
	history := []TimelineEvent{event(EventPunchIn, 9, 0, 0)}

	err := ValidateAppend(history, event(EventPunchIn, 9, 5, 1))
	assert.ErrorIs(t, err, ErrDuplicatePunchIn)
}

func TestValidateAppend_PunchInWhileOnBreak(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventBreakStart, 12, 0, 1),
	}

	err := ValidateAppend(history, event(EventPunchIn, 12, 30, 2))
	assert.ErrorIs(t, err, ErrDuplicatePunchIn)
}

func TestValidateAppend_PunchOutWithoutPunchIn(t *testing.T) {
	err := ValidateAppend(nil, event(EventPunchOut, 18, 0, 0))
	assert.ErrorIs(t, err, ErrNotWorking)
}

func TestValidateAppend_PunchOutWhileOnBreak(t *testing.T) {
	// Punching out mid-break is legal; the break is closed by the fold.
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventBreakStart, 12, 0, 1),
	}

	err := ValidateAppend(history, event(EventPunchOut, 18, 0, 2))
	assert.NoError(t, err)
}

func TestValidateAppend_BreakStartWithoutWorking(t *testing.T) {
	err := ValidateAppend(nil, event(EventBreakStart, 12, 0, 0))
	assert.ErrorIs(t, err, ErrNotWorking)
}

func TestValidateAppend_BreakStartWhileOnBreak(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventBreakStart, 12, 0, 1),
	}

	err := ValidateAppend(history, event(EventBreakStart, 12, 10, 2))
	assert.ErrorIs(t, err, ErrAlreadyOnBreak)
}

func TestValidateAppend_BreakEndWithoutBreak(t *testing.T) {
	history := []TimelineEvent{event(EventPunchIn, 9, 0, 0)}

	err := ValidateAppend(history, event(EventBreakEnd, 12, 30, 1))
	assert.ErrorIs(t, err, ErrNoOpenBreak)
}

func TestValidateAppend_SealedDayRejectsLiveEvents(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventPunchOut, 18, 0, 1),
	}

	for _, typ := range []EventType{EventPunchIn, EventPunchOut, EventBreakStart, EventBreakEnd} {
		err := ValidateAppend(history, event(typ, 19, 0, 2))
		assert.ErrorIs(t, err, ErrAlreadyPunchedOut, "live %s after punch-out must be rejected", typ)
	}
}

func TestValidateAppend_ManualBypassesSeal(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventPunchOut, 18, 0, 1),
	}

	// A forgotten break inserted by an admin into the middle of a sealed day.
	err := ValidateAppend(history, manualEvent(EventBreakStart, 12, 0, 2))
	assert.NoError(t, err)
}

func TestValidateAppend_ManualReentryAfterSeal(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventPunchOut, 17, 0, 1),
	}

	// An admin may re-open the day after the punch-out; the live path cannot.
	err := ValidateAppend(history, manualEvent(EventPunchIn, 17, 30, 2))
	assert.NoError(t, err)

	err = ValidateAppend(history, event(EventPunchIn, 17, 30, 2))
	assert.ErrorIs(t, err, ErrAlreadyPunchedOut)
}

func TestValidateAppend_ManualOutOfOrderRejected(t *testing.T) {
	history := []TimelineEvent{
		event(EventPunchIn, 9, 0, 0),
		event(EventBreakStart, 12, 0, 1),
		event(EventBreakEnd, 12, 30, 2),
		event(EventPunchOut, 18, 0, 3),
	}

	// A second break-start at the exact punch-out instant would fold into a
	// zero-length session.
	err := ValidateAppend(history, manualEvent(EventBreakStart, 18, 0, 4))
	assert.ErrorIs(t, err, ErrEventOutOfOrder)
}

func TestValidateAppend_ManualBackfillEmptyDay(t *testing.T) {
	err := ValidateAppend(nil, manualEvent(EventPunchIn, 9, 0, 0))
	assert.NoError(t, err)
}

func TestStatusOf_Progression(t *testing.T) {
	var history []TimelineEvent
	assert.Equal(t, StatusNotStarted, statusOf(history))

	history = append(history, event(EventPunchIn, 9, 0, 0))
	assert.Equal(t, StatusWorking, statusOf(history))

	history = append(history, event(EventBreakStart, 12, 0, 1))
	assert.Equal(t, StatusOnBreak, statusOf(history))

	history = append(history, event(EventBreakEnd, 12, 30, 2))
	assert.Equal(t, StatusWorking, statusOf(history))

	history = append(history, event(EventPunchOut, 18, 0, 3))
	assert.Equal(t, StatusFinished, statusOf(history))
}
