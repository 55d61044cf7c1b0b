package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/abhisek/cogniscreen/internal/screens/screentest"
	"github.com/abhisek/cogniscreen/internal/store"
)

func TestTabs(t *testing.T) {
	s := New(st.Deps(t))
	st.Start(s)
	require.Len(t, s.data.Results, 14)

	assert.Contains(t, s.View(120, 40), "María García")

	st.Send(s, st.Key("tab"))
	trend := s.View(120, 40)
	assert.Contains(t, trend, "2025-01")
	assert.Contains(t, trend, "2025-05")

	st.Send(s, st.Key("tab"))
	assert.Contains(t, s.View(120, 40), "Total: 14 evaluaciones")

	st.Send(s, st.Key("tab"))
	assert.Equal(t, tabHistory, s.tabs.Active)
}

func TestEmptyViews(t *testing.T) {
	assert.Contains(t, renderTrend(nil, 100), "Sin datos")
	assert.Contains(t, renderDistribution(nil, 100), "Sin evaluaciones")
}

func TestDistributionShares(t *testing.T) {
	out := renderDistribution([]store.TestCount{
		{Test: "MMSE", Count: 3},
		{Test: "MoCA", Count: 1},
	}, 100)

	assert.Contains(t, out, "3 (75%)")
	assert.Contains(t, out, "1 (25%)")
	assert.Contains(t, out, "Total: 4 evaluaciones")
}
