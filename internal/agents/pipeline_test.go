package agents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestMeanScore(t *testing.T) {
	assert.Equal(t, 0, meanScore(nil))
	assert.Equal(t, 70, meanScore([]model.Lead{{Score: 90}, {Score: 70}, {Score: 50}}))
	// 85+80 = 165, 165/2 = 82.5 rounds up.
	assert.Equal(t, 83, meanScore([]model.Lead{{Score: 85}, {Score: 80}}))
}

func TestStatusDistribution(t *testing.T) {
	leads := []model.Lead{
		{Status: "new"},
		{Status: "contacted"},
		{Status: "new"},
	}
	assert.Equal(t, map[string]int{"new": 2, "contacted": 1}, statusDistribution(leads))
}

func TestTopLeadsByScore(t *testing.T) {
	leads := []model.Lead{
		{Name: "low", Score: 10},
		{Name: "tie-a", Score: 50},
		{Name: "high", Score: 90},
		{Name: "tie-b", Score: 50},
	}

	top := topLeadsByScore(leads, 3)
	assert.Len(t, top, 3)
	assert.Equal(t, "high", top[0].Name)
	assert.Equal(t, "tie-a", top[1].Name)
	assert.Equal(t, "tie-b", top[2].Name)
	// Input order is untouched.
	assert.Equal(t, "low", leads[0].Name)
}

func TestTopLeadsByScore_FewerThanLimit(t *testing.T) {
	leads := []model.Lead{{Name: "only", Score: 5}}
	top := topLeadsByScore(leads, 10)
	assert.Len(t, top, 1)
}

func TestPipelineSummary(t *testing.T) {
	leads := []model.Lead{
		{Name: "Ada Lovelace", Company: "Analytical Engines", Score: 95, Status: "qualified"},
		{Name: "Grace Hopper", Company: "COBOL Inc", Score: 40, Status: "new"},
	}

	summary := pipelineSummary(leads, 68)
	assert.True(t, strings.HasPrefix(summary, "Analyze this pipeline and provide strategic insights:"))
	assert.Contains(t, summary, "- Total Leads: 2")
	assert.Contains(t, summary, "- Average Lead Score: 68/100")
	assert.Contains(t, summary, "- Ada Lovelace (Analytical Engines) - Score: 95, Status: qualified")
	assert.Contains(t, summary, "- Grace Hopper (COBOL Inc) - Score: 40, Status: new")
	assert.Contains(t, summary, "**30-Day Forecast**")

	ada := strings.Index(summary, "Ada Lovelace (")
	grace := strings.Index(summary, "Grace Hopper (")
	assert.Less(t, ada, grace)
}
