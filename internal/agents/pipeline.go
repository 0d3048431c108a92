package agents

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// topLeadsCount bounds how many leads are listed in the pipeline prompt.
const topLeadsCount = 10

// meanScore returns the rounded mean lead score, 0 for an empty pipeline.
func meanScore(leads []model.Lead) int {
	if len(leads) == 0 {
		return 0
	}
	sum := 0
	for _, l := range leads {
		sum += l.Score
	}
	return int(math.Round(float64(sum) / float64(len(leads))))
}

// statusDistribution counts leads per status.
func statusDistribution(leads []model.Lead) map[string]int {
	counts := make(map[string]int, len(leads))
	for _, l := range leads {
		counts[l.Status]++
	}
	return counts
}

// topLeadsByScore returns up to n leads ranked by score descending. The sort
// is stable so ties keep their original order.
func topLeadsByScore(leads []model.Lead, n int) []model.Lead {
	ranked := make([]model.Lead, len(leads))
	copy(ranked, leads)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// pipelineSummary formats the locally-computed pipeline overview prompt.
func pipelineSummary(leads []model.Lead, avgScore int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Analyze this pipeline and provide strategic insights:

**Pipeline Overview:**
- Total Leads: %d
- Average Lead Score: %d/100
- Status Distribution: %s

**Lead Details (Top 10 by score):**
`, len(leads), avgScore, string(utils.MustMarshalJSON(statusDistribution(leads))))

	top := topLeadsByScore(leads, topLeadsCount)
	lines := make([]string, 0, len(top))
	for _, l := range top {
		lines = append(lines, fmt.Sprintf("- %s (%s) - Score: %d, Status: %s", l.Name, l.Company, l.Score, l.Status))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString(`

Please provide:
1. **Pipeline Health Assessment** - Overall state and concerns
2. **Priority Actions** - Top 3-5 things to focus on now
3. **Risk Alerts** - Deals at risk or stalling
4. **Opportunities** - Quick wins and high-potential leads
5. **30-Day Forecast** - Expected outcomes with current trajectory
6. **Strategic Recommendations** - Process improvements`)

	return b.String()
}
