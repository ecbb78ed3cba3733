package frameworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFramework(t *testing.T) {
	tests := []struct {
		input string
		want  Framework
	}{
		{"net8.0", Net80},
		{"NET8.0", Net80},
		{" net9.0 ", Net90},
		{"net10.0", Net100},
		{"net8", Net80},
		{"net80", Net80},
		{"net5", Net50},
		{"net48", Net48},
		{"net472", Net472},
		{"netstandard2.0", NetStandard20},
		{"netcoreapp3.1", NetCoreApp31},
		{"", Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFramework(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFramework_Unknown(t *testing.T) {
	for _, input := range []string{"net3.0", "netstandard9.9", "java17", "net"} {
		_, err := ParseFramework(input)
		assert.Error(t, err, input)
	}
}

func TestFramework_Moniker(t *testing.T) {
	assert.Equal(t, "net8.0", Net80.Moniker())
	assert.Equal(t, "netstandard2.1", NetStandard21.Moniker())
	assert.Equal(t, "", Unspecified.Moniker())
	assert.Equal(t, "", Framework(999).Moniker())
}

func TestFramework_Identifier(t *testing.T) {
	assert.Equal(t, IdentifierNETCoreApp, Net60.Identifier())
	assert.Equal(t, IdentifierNETFramework, Net481.Identifier())
	assert.Equal(t, IdentifierNETStandard, NetStandard20.Identifier())
	assert.Equal(t, "8.0", Net80.Version())
}

func TestFramework_IsNet5Era(t *testing.T) {
	assert.True(t, Net50.IsNet5Era())
	assert.True(t, Net100.IsNet5Era())
	assert.False(t, NetCoreApp31.IsNet5Era())
	assert.False(t, Net48.IsNet5Era())
	assert.False(t, Unspecified.IsNet5Era())
}

func TestAll_RoundTrip(t *testing.T) {
	all := All()
	assert.Len(t, all, len(frameworkTable))
	for _, fw := range all {
		parsed, err := ParseFramework(fw.Moniker())
		require.NoError(t, err)
		assert.Equal(t, fw, parsed)
	}
}

func TestFramework_String(t *testing.T) {
	assert.Equal(t, "net7.0", Net70.String())
	assert.Equal(t, "unspecified", Unspecified.String())
}
