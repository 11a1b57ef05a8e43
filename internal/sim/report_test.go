package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporter_Interval(t *testing.T) {
	w := newTestWorld(t, 1)
	r := NewReporter(w, 1)

	r.Tick(0.5, 0.5)
	assert.Zero(t, r.Reports())

	r.Tick(1.0, 0.5)
	assert.Equal(t, 1, r.Reports())

	// a long frame logs once and skips the missed intervals
	r.Tick(3.7, 2.7)
	assert.Equal(t, 2, r.Reports())
	r.Tick(3.9, 0.2)
	assert.Equal(t, 2, r.Reports())
	r.Tick(4.0, 0.1)
	assert.Equal(t, 3, r.Reports())
}

func TestReporter_Disabled(t *testing.T) {
	r := NewReporter(newTestWorld(t, 1), 0)
	r.Tick(100, 1)
	assert.Zero(t, r.Reports())
}
