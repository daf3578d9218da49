package checklist

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreExampleScenario(t *testing.T) {
	sel := Selection{
		"trend_week":  true,
		"trend_daily": true,
		KeyAOIPlus:    true,
		KeyAOIValid:   true, // toggled earlier, superseded by A+
	}

	total, breakdown := Score(sel)

	assert.Equal(t, 40, total)
	require.Len(t, breakdown, 3)
	for _, a := range breakdown {
		assert.NotEqual(t, "AOI valid (<4 rejections)", a.Label)
	}
	// Input selection must not be mutated by scoring.
	assert.True(t, sel[KeyAOIValid])
}

func TestScoreEmptySelection(t *testing.T) {
	total, breakdown := Score(Selection{})
	assert.Equal(t, 0, total)
	assert.Empty(t, breakdown)
	assert.Equal(t, "None", RenderBreakdown(breakdown))
}

func TestScoreBreakdownFollowsDefinitionOrder(t *testing.T) {
	sel := Selection{"conf_2h_hs": true, "trend_week": true, "entry_2h_sos": true}
	_, breakdown := Score(sel)
	require.Len(t, breakdown, 3)
	assert.Equal(t, "Weekly Trend aligned", breakdown[0].Label)
	assert.Equal(t, "2H Structure Shift (SOS)", breakdown[1].Label)
	assert.Equal(t, "2H Head&Shoulders completed", breakdown[2].Label)
}

func TestRenderBreakdown(t *testing.T) {
	_, breakdown := Score(Selection{"trend_week": true, "conf_d_ema50": true})
	assert.Equal(t, "- Weekly Trend aligned: +10\n- Daily EMA50 rejection: +5", RenderBreakdown(breakdown))
}

func TestMaxScore(t *testing.T) {
	assert.Equal(t, 125, MaxScore)
}

// Property: for any selection the total stays within [0, MaxScore], and
// ticking both AOI flags scores identically to ticking A+ alone.
func TestProperty_ScoreBoundsAndAOIExclusivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	selectionGen := gen.SliceOfN(len(Items), gen.Bool()).Map(func(flags []bool) Selection {
		sel := Selection{}
		for i, on := range flags {
			if on {
				sel[Items[i].Key] = true
			}
		}
		return sel
	})

	properties.Property("total within [0, MaxScore]", prop.ForAll(
		func(sel Selection) bool {
			total, _ := Score(sel)
			return total >= 0 && total <= MaxScore
		},
		selectionGen,
	))

	properties.Property("A+ supersedes base AOI", prop.ForAll(
		func(sel Selection) bool {
			both := sel.Clone()
			both[KeyAOIValid] = true
			both[KeyAOIPlus] = true

			plusOnly := sel.Clone()
			plusOnly[KeyAOIValid] = false
			plusOnly[KeyAOIPlus] = true

			totalBoth, bdBoth := Score(both)
			totalPlus, bdPlus := Score(plusOnly)
			return totalBoth == totalPlus && len(bdBoth) == len(bdPlus)
		},
		selectionGen,
	))

	properties.Property("breakdown points sum to total", prop.ForAll(
		func(sel Selection) bool {
			total, breakdown := Score(sel)
			sum := 0
			for _, a := range breakdown {
				sum += a.Points
			}
			return sum == total
		},
		selectionGen,
	))

	properties.TestingRun(t)
}
