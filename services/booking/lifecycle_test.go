package booking

import (
	"testing"

	"ziyonstar/models"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable_CoversEveryStatus(t *testing.T) {
	for _, s := range models.AllBookingStatuses {
		_, ok := transitions[s]
		assert.True(t, ok, "status %s missing from table", s)
	}
	for from, next := range transitions {
		assert.True(t, from.Valid())
		for to := range next {
			assert.True(t, to.Valid(), "%s -> %s", from, to)
			assert.NotEqual(t, from, to, "self loop on %s", from)
		}
	}
}

func TestTransitionTable_Terminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusCompleted))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusPickedUp))

	for _, to := range models.AllBookingStatuses {
		assert.False(t, CanTransition(models.StatusCompleted, to))
		assert.False(t, CanTransition(models.StatusCancelled, to))
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]models.BookingStatus{
		{models.StatusPendingAssignment, models.StatusPendingAcceptance},
		{models.StatusAwaitingPayment, models.StatusPendingAcceptance},
		{models.StatusPendingAcceptance, models.StatusAccepted},
		{models.StatusPendingAcceptance, models.StatusRejected},
		{models.StatusRejected, models.StatusPendingAssignment},
		{models.StatusAccepted, models.StatusOnWay},
		{models.StatusOnWay, models.StatusArrived},
		{models.StatusArrived, models.StatusInProgress},
		{models.StatusInProgress, models.StatusPickedUp},
		{models.StatusPickedUp, models.StatusCompleted},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}

	denied := [][2]models.BookingStatus{
		{models.StatusPendingAssignment, models.StatusCompleted},
		{models.StatusPendingAcceptance, models.StatusInProgress},
		{models.StatusAccepted, models.StatusPendingAssignment},
		{models.StatusArrived, models.StatusOnWay},
		{models.StatusInProgress, models.StatusAccepted},
		{"Bogus", models.StatusCancelled},
	}
	for _, e := range denied {
		assert.False(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}
}

func TestLifecycleError_Is(t *testing.T) {
	err := invalidTransition("nope")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrValidation)

	var le *LifecycleError
	assert.ErrorAs(t, validation("bad"), &le)
	assert.Equal(t, KindValidation, le.Kind)
	assert.Equal(t, "validation_failure: bad", le.Error())
}
