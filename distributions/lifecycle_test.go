package distributions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func TestCanOpenOnlyPlanned(t *testing.T) {
	assert.NoError(t, canOpen(models.DistributionPlanned))
}

func TestCanOpenRejectsOpen(t *testing.T) {
	assert.ErrorIs(t, canOpen(models.DistributionOpen), ErrAlreadyOpen)
	assert.ErrorIs(t, canOpen("ouverte"), ErrAlreadyOpen)
	assert.ErrorIs(t, canOpen("ouvertes"), ErrAlreadyOpen)
}

func TestCanOpenRejectsFinished(t *testing.T) {
	// Finished is terminal: the sale runs again via a new
	// distribution, never by flipping an old one back.
	assert.ErrorIs(t, canOpen(models.DistributionFinished), ErrAlreadyClosed)
	assert.ErrorIs(t, canOpen("anything-else"), ErrAlreadyClosed)
}
