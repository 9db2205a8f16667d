package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"CREATED", StatusCreated},
		{"created", StatusCreated},
		{"Created", StatusCreated},
		{"  processing  ", StatusProcessing},
		{"SHIPPED", StatusShipped},
		{"cancelled", StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, input := range []string{"", "UNKNOWN", "cancel", "CREATEDX"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseStatus(input)
			assert.ErrorIs(t, err, ErrInvalidStatus)
		})
	}
}
