package psr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose_LinkedUsesQuarterWeights(t *testing.T) {
	rating := Compose(true,
		Input{Score: 100},
		Input{Score: 80},
		Input{Score: 60},
		Input{Score: 40},
	)

	assert.True(t, rating.IsLinkedToEmployer)
	assert.Len(t, rating.Components, 4)
	totalWeight := 0
	for _, c := range rating.Components {
		assert.Equal(t, 25, c.Weight)
		totalWeight += c.Weight
	}
	assert.Equal(t, 100, totalWeight)
	assert.Equal(t, 70, rating.OverallScore)
	assert.Equal(t, "Good", rating.Status)
}

func TestCompose_UnlinkedDropsWorkHistory(t *testing.T) {
	rating := Compose(false,
		Input{Score: 90},
		Input{Score: 90},
		Input{Score: 90},
		Input{Score: 0},
	)

	assert.False(t, rating.IsLinkedToEmployer)
	assert.Len(t, rating.Components, 3)
	for _, c := range rating.Components {
		assert.NotEqual(t, ComponentWorkHistory, c.Name)
		assert.Equal(t, 33, c.Weight)
	}
	// The dropped component must not drag the score down.
	assert.Equal(t, 90, rating.OverallScore)
	assert.Equal(t, "Excellent", rating.Status)
}

func TestCompose_UnlinkedOverallStaysOnHundredScale(t *testing.T) {
	rating := Compose(false,
		Input{Score: 100},
		Input{Score: 100},
		Input{Score: 100},
		Input{},
	)
	assert.Equal(t, 100, rating.OverallScore)
}

func TestCompose_OverallRoundsToNearestInteger(t *testing.T) {
	// (100+100+100+50)/4 = 87.5, rounds to 88.
	rating := Compose(true,
		Input{Score: 100},
		Input{Score: 100},
		Input{Score: 100},
		Input{Score: 50},
	)
	assert.Equal(t, 88, rating.OverallScore)
}

func TestCompose_ComponentStatusUsesSameBands(t *testing.T) {
	rating := Compose(true,
		Input{Score: 95},
		Input{Score: 70},
		Input{Score: 50},
		Input{Score: 49},
	)
	assert.Equal(t, "Excellent", rating.Components[0].Status)
	assert.Equal(t, "Good", rating.Components[1].Status)
	assert.Equal(t, "Needs Work", rating.Components[2].Status)
	assert.Equal(t, "Critical", rating.Components[3].Status)
}

func TestBand_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89, "Good"},
		{70, "Good"},
		{69, "Needs Work"},
		{50, "Needs Work"},
		{49, "Critical"},
		{0, "Critical"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Band(tc.score), "score %d", tc.score)
	}
}
