package mathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapClampsInput(t *testing.T) {
	assert.Equal(t, 5, Map(-10, 0, 1023, 5, 255))
	assert.Equal(t, 255, Map(4000, 0, 1023, 5, 255))
	assert.Equal(t, 5, Map(0, 0, 1023, 5, 255))
	assert.Equal(t, 255, Map(1023, 0, 1023, 5, 255))
	assert.Equal(t, 7, Map(3, 3, 3, 7, 9))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, Wrap(4, 4))
	assert.Equal(t, 3, Wrap(-1, 4))
	assert.Equal(t, 0, Wrap(12, 0))
}

func TestQAdd8Saturates(t *testing.T) {
	assert.Equal(t, uint8(255), QAdd8(250, 10))
	assert.Equal(t, uint8(20), QAdd8(10, 10))
}

func TestMapFloat(t *testing.T) {
	assert.InDelta(t, 2.0, MapFloat(1023, 0, 1023, 0.25, 2.0), 1e-9)
	assert.InDelta(t, 0.25, MapFloat(-5, 0, 1023, 0.25, 2.0), 1e-9)
}
