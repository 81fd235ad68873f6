package split

import "sort"

// ReviewerLoad is one row of the end-of-run ranking.
type ReviewerLoad struct {
	Reviewer string
	Count    int
}

// LoadCounter tracks how many changes each reviewer was assigned over
// one run. It is owned by the orchestrator, never persisted, and
// accumulates in dry runs too so the ranking can be previewed.
type LoadCounter struct {
	counts map[string]int
}

func NewLoadCounter() *LoadCounter {
	return &LoadCounter{counts: make(map[string]int)}
}

func (c *LoadCounter) Add(reviewers ...string) {
	for _, reviewer := range reviewers {
		c.counts[reviewer]++
	}
}

func (c *LoadCounter) Count(reviewer string) int {
	return c.counts[reviewer]
}

// Top returns the n most-loaded reviewers, descending by count with
// ties broken by name for stable output.
func (c *LoadCounter) Top(n int) []ReviewerLoad {
	ranking := make([]ReviewerLoad, 0, len(c.counts))
	for reviewer, count := range c.counts {
		ranking = append(ranking, ReviewerLoad{Reviewer: reviewer, Count: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Reviewer < ranking[j].Reviewer
	})
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
