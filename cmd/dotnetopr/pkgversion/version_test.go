package pkgversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input      string
		want       Version
		normalized string
	}{
		{"1.0", Version{Major: 1}, "1.0.0"},
		{"13.0.3", Version{Major: 13, Patch: 3}, "13.0.3"},
		{"1.2.3.4", Version{Major: 1, Minor: 2, Patch: 3, Revision: 4, Legacy: true}, "1.2.3.4"},
		{"1.2.3.0", Version{Major: 1, Minor: 2, Patch: 3, Legacy: true}, "1.2.3"},
		{"2.0.0-beta.1", Version{Major: 2, Release: []string{"beta", "1"}}, "2.0.0-beta.1"},
		{"2.0.0-rc-2+sha.5", Version{Major: 2, Release: []string{"rc-2"}, Metadata: "sha.5"}, "2.0.0-rc-2+sha.5"},
		{" 3.1.1 ", Version{Major: 3, Minor: 1, Patch: 1}, "3.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *v)
			assert.Equal(t, tt.normalized, v.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "1", "1.2.3.4.5", "a.b", "1.-2", "1.0-", "1.0.0-beta..1", "1.0+", "1.0.0-be_ta"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestCompare(t *testing.T) {
	ordered := []string{
		"1.0.0-1",
		"1.0.0-2",
		"1.0.0-10",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-Beta",
		"1.0.0-rc",
		"1.0.0",
		"1.0.0.1",
		"1.0.1",
		"1.1",
		"2.0.0",
	}

	for i := 0; i+1 < len(ordered); i++ {
		lo, err := Parse(ordered[i])
		require.NoError(t, err)
		hi, err := Parse(ordered[i+1])
		require.NoError(t, err)

		assert.Equal(t, -1, lo.Compare(hi), "%s < %s", ordered[i], ordered[i+1])
		assert.Equal(t, 1, hi.Compare(lo), "%s > %s", ordered[i+1], ordered[i])
	}
}

func TestCompare_IgnoresMetadataAndCase(t *testing.T) {
	a, err := Parse("1.0.0-RC.1+build.1")
	require.NoError(t, err)
	b, err := Parse("1.0.0-rc.1+build.2")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Compare(b))
	assert.True(t, a.IsPrerelease())
}
