package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/domain"
)

func TestCountdownInput_TotalSeconds(t *testing.T) {
	tests := []struct {
		name    string
		in      countdownInput
		want    int
		wantErr bool
	}{
		{name: "minutes and seconds", in: countdownInput{Minutes: "5", Seconds: "30"}, want: 330},
		{name: "seconds only", in: countdownInput{Minutes: "", Seconds: "45"}, want: 45},
		{name: "padded", in: countdownInput{Minutes: " 2 ", Seconds: "0"}, want: 120},
		{name: "zero", in: countdownInput{Minutes: "0", Seconds: "0"}, wantErr: true},
		{name: "empty", in: countdownInput{}, wantErr: true},
		{name: "negative", in: countdownInput{Minutes: "-1"}, wantErr: true},
		{name: "not a number", in: countdownInput{Minutes: "five"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.TotalSeconds()
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCountdownInput_Defaults(t *testing.T) {
	in := newCountdownInput(10)
	assert.Equal(t, "10", in.Minutes)
	assert.Equal(t, "0", in.Seconds)

	assert.Equal(t, "5", newCountdownInput(0).Minutes)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validatePositiveInt("3"))
	assert.Error(t, validatePositiveInt("0"))
	assert.Error(t, validatePositiveInt(""))

	assert.NoError(t, validateNonNegativeInt(""))
	assert.NoError(t, validateNonNegativeInt("0"))
	assert.Error(t, validateNonNegativeInt("-2"))

	assert.NoError(t, required("Password")("x"))
	assert.EqualError(t, required("Password")("  "), "Password is required")
}

func TestCheckinForm_DefaultsToMinutes(t *testing.T) {
	var in checkinInput
	_ = checkinForm(&in)
	assert.Equal(t, string(domain.UnitMinutes), in.Unit)
}

func TestPromptSecret(t *testing.T) {
	app := &App{}

	given := "secret1"
	require.NoError(t, promptSecret(app, "Password", &given))
	assert.Equal(t, "secret1", given)

	var missing string
	err := promptSecret(app, "New password", &missing)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "new password is required")
}
