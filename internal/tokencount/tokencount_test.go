package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCounterEmptyText(t *testing.T) {
	c := NewHeuristicCounter()
	assert.Equal(t, 0, c.Count(""))
}

func TestHeuristicCounterApproximatesLength(t *testing.T) {
	c := NewHeuristicCounter()
	assert.Equal(t, 4, c.Count("this is twelve"))
}

func TestHeuristicCounterClose(t *testing.T) {
	c := NewHeuristicCounter()
	c.Close() // no-op, must not panic
}
