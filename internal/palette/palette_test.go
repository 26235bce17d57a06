package palette

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioRanking = []string{"US", "DE", "CA", "GB", "AU", "IT", "NL", "FR"}

func snapshot(m *ColorMap) map[string]string {
	out := make(map[string]string, m.Len())
	for _, l := range m.Labels() {
		out[l] = m.Lookup(l).String()
	}
	return out
}

func TestAssign_EightCountryScenario(t *testing.T) {
	m, err := Assign(scenarioRanking, Spectral)
	require.NoError(t, err)

	assert.Equal(t, 8, m.Len())
	assert.Equal(t, scenarioRanking, m.Labels())

	distinct := make(map[string]string)
	for _, label := range scenarioRanking {
		hex := m.Lookup(label).RGBHex()
		if other, dup := distinct[hex]; dup {
			t.Fatalf("%s and %s share color %s", label, other, hex)
		}
		distinct[hex] = label
	}

	samples := Spectral.Sample(8)
	assert.Equal(t, samples[0], m.Lookup("US"))
	assert.Equal(t, samples[7], m.Lookup("FR"))
	assert.Equal(t, "9E0142", m.Lookup("US").RGBHex())
	assert.Equal(t, "5E4FA2", m.Lookup("FR").RGBHex())
}

func TestAssign_Idempotent(t *testing.T) {
	a, err := Assign(scenarioRanking, Spectral)
	require.NoError(t, err)
	b, err := Assign(scenarioRanking, Spectral)
	require.NoError(t, err)

	if diff := cmp.Diff(snapshot(a), snapshot(b)); diff != "" {
		t.Errorf("maps differ (-a +b):\n%s", diff)
	}
}

func TestLookup_StableAcrossCalls(t *testing.T) {
	m, err := Assign(scenarioRanking, Spectral)
	require.NoError(t, err)

	// Two "charts" that see different subsets in different orders.
	chart2015 := m.Colors([]string{"US", "GB", "CA", "FR"})
	chart2023 := m.Colors([]string{"FR", "CA", "US"})

	assert.Equal(t, chart2015[0], chart2023[2])
	assert.Equal(t, chart2015[2], chart2023[1])
	assert.Equal(t, chart2015[3], chart2023[0])

	for i := 0; i < 3; i++ {
		assert.Equal(t, m.Lookup("GB"), m.Lookup("GB"))
	}
}

func TestLookup_UnknownLabelGetsFallback(t *testing.T) {
	m, err := Assign(scenarioRanking, Spectral)
	require.NoError(t, err)

	got := m.Lookup("JP")
	assert.False(t, m.Has("JP"))
	assert.Equal(t, DefaultFallback, got)
	assert.Equal(t, "CCCCCC", got.RGBHex())
	assert.Equal(t, "#cccccc", got.String())
	for _, label := range scenarioRanking {
		assert.NotEqual(t, m.Lookup(label), got, "fallback collides with %s", label)
	}
}

func TestAssign_CustomFallbackAndSize(t *testing.T) {
	gray, err := ParseHex("808080")
	require.NoError(t, err)

	m, err := Assign([]string{"a", "b"}, Spectral, WithSize(11), WithFallback(gray))
	require.NoError(t, err)

	assert.Equal(t, "9E0142", m.Lookup("a").RGBHex())
	assert.Equal(t, "D53E4F", m.Lookup("b").RGBHex())
	assert.Equal(t, gray, m.Lookup("zzz"))
}

func TestAssign_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ranking []string
		opts    []Option
	}{
		{"duplicate label", []string{"US", "US"}, nil},
		{"empty label", []string{"US", ""}, nil},
		{"size too small", []string{"US", "DE", "CA"}, []Option{WithSize(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assign(tt.ranking, Spectral, tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestAssign_SingleLabelTakesStartColor(t *testing.T) {
	m, err := Assign([]string{"only"}, Viridis)
	require.NoError(t, err)
	assert.Equal(t, "440154", m.Lookup("only").RGBHex())
}

func TestAssign_EmptyRanking(t *testing.T) {
	m, err := Assign(nil, Spectral)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, DefaultFallback, m.Lookup("anything"))
}

func TestFixed_RetentionColors(t *testing.T) {
	blue, err := ParseHex("#4169E1")
	require.NoError(t, err)

	m, err := Fixed([]Entry{
		{Label: "Active", Color: blue},
		{Label: "Churned", Color: blue.WithAlpha(0.65)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Active", "Churned"}, m.Labels())
	assert.Equal(t, color.NRGBA{R: 0x41, G: 0x69, B: 0xE1, A: 255}, m.Lookup("Active").NRGBA())
	assert.Equal(t, color.NRGBA{R: 0x41, G: 0x69, B: 0xE1, A: 166}, m.Lookup("Churned").NRGBA())
	assert.Equal(t, "#4169e1@0.65", m.Lookup("Churned").String())
}

func TestFixed_DuplicateLabel(t *testing.T) {
	_, err := Fixed([]Entry{{Label: "x"}, {Label: "x"}})
	assert.Error(t, err)
}

func TestColormap_At(t *testing.T) {
	assert.Equal(t, "9E0142", Spectral.At(-1).RGBHex())
	assert.Equal(t, "5E4FA2", Spectral.At(2).RGBHex())
	assert.Equal(t, "FFFFBF", Spectral.At(0.5).RGBHex())
}

func TestByName(t *testing.T) {
	c, err := ByName("Viridis")
	require.NoError(t, err)
	assert.Equal(t, "viridis", c.Name())

	_, err = ByName("rainbow")
	assert.Error(t, err)
}

func TestParseHex_Invalid(t *testing.T) {
	_, err := ParseHex("not-a-color")
	assert.Error(t, err)
}
