package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	g := Grid{Columns: 5, Rows: 3}
	assert.Equal(t, 0, g.Index(0, 0))
	assert.Equal(t, 7, g.Index(2, 1))
	assert.Equal(t, -1, g.Index(5, 0))
	assert.Equal(t, -1, g.Index(0, 3))
	assert.Equal(t, 15, g.Count())

	g.Serpentine = true
	assert.Equal(t, 9, g.Index(0, 1))
	assert.Equal(t, 10, g.Index(0, 2))
}

func TestFit(t *testing.T) {
	assert.Equal(t, Strip(150), Grid{}.Fit(150))
	assert.Equal(t, Grid{Columns: 15, Rows: 10}, Grid{Columns: 15}.Fit(150))
	assert.Equal(t, Grid{Columns: 15, Rows: 10}, Grid{Columns: 15, Rows: 40}.Fit(150))
	assert.Equal(t, Strip(10), Grid{Columns: 20}.Fit(10))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Grid{Columns: 10, Rows: 15}.Validate(150))
	assert.Error(t, Grid{Columns: 10, Rows: 16}.Validate(150))
	assert.Error(t, Grid{Columns: -1}.Validate(150))
}
