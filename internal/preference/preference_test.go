package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		prefs []int
		wire  string
	}{
		{name: "full curve", prefs: []int{4, 2, 1, 0}, wire: "4,2,1,0"},
		{name: "single choice", prefs: []int{1, 0}, wire: "1,0"},
		{name: "large values", prefs: []int{12, 10, 3, 0}, wire: "12,10,3,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wire, Encode(tt.prefs))

			decoded, err := Decode(tt.wire)
			require.NoError(t, err)
			assert.Equal(t, tt.prefs, decoded)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("4,two,0")
	require.Error(t, err)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "two", formatErr.Token)
}

func TestDecode_Empty(t *testing.T) {
	decoded, err := Decode("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecode_TrimsSpaces(t *testing.T) {
	decoded, err := Decode("4, 2, 1, 0")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 1, 0}, decoded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		prefs   []int
		wantErr bool
	}{
		{name: "valid curve", prefs: []int{4, 2, 1, 0}, wantErr: false},
		{name: "minimal curve", prefs: []int{1, 0}, wantErr: false},
		{name: "empty", prefs: []int{}, wantErr: true},
		{name: "zero only", prefs: []int{0}, wantErr: true},
		{name: "not strict", prefs: []int{3, 3, 0}, wantErr: true},
		{name: "increasing", prefs: []int{3, 5, 0}, wantErr: true},
		{name: "missing terminator", prefs: []int{3, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.prefs)
			if tt.wantErr {
				var seqErr *SequenceError
				require.ErrorAs(t, err, &seqErr)
				assert.NotEmpty(t, seqErr.Rule)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidate_NamesFirstViolatedRule(t *testing.T) {
	err := Validate([]int{0})
	var seqErr *SequenceError
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, "first choice must be greater than zero", seqErr.Rule)

	err = Validate([]int{3, 5, 0})
	require.ErrorAs(t, err, &seqErr)
	assert.Equal(t, "each choice must be less than the previous", seqErr.Rule)
}

func TestFirstAndMinAcceptable(t *testing.T) {
	prefs := []int{4, 2, 1, 0}
	assert.Equal(t, 4, First(prefs))
	assert.Equal(t, 1, MinAcceptable(prefs))

	assert.Equal(t, 3, First([]int{3, 0}))
	assert.Equal(t, 3, MinAcceptable([]int{3, 0}))

	assert.Equal(t, 0, First(nil))
	assert.Equal(t, 0, MinAcceptable([]int{0}))
}
