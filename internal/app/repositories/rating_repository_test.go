package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The overwrite-on-repeat-vote behavior lives entirely in the upsert
// statement, so pin its shape down.
func TestUpsertRatingSQL(t *testing.T) {
	assert.Contains(t, upsertRatingSQL, "INSERT INTO ratings (note_id, user_id, rating)")
	assert.Contains(t, upsertRatingSQL, "ON CONFLICT (note_id, user_id) DO UPDATE SET rating = EXCLUDED.rating")
}
