package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Contains(t *testing.T) {
	w := Window{Min: 0.5, Max: 2.0}
	assert.False(t, w.Contains(0.5))
	assert.True(t, w.Contains(0.5000001))
	assert.True(t, w.Contains(1.0))
	assert.False(t, w.Contains(2.0))
	assert.False(t, w.Contains(math.NaN()))
}

func TestWindow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w       Window
		wantErr bool
	}{
		{"Valid", Window{Min: 0.1, Max: 5}, false},
		{"ZeroMin", Window{Min: 0, Max: 0.4}, false},
		{"Equal", Window{Min: 1, Max: 1}, true},
		{"Inverted", Window{Min: 2, Max: 1}, true},
		{"Negative", Window{Min: -1, Max: 1}, true},
		{"NaN", Window{Min: math.NaN(), Max: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWindow)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
