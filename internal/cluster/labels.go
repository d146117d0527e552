package cluster

import (
	"math"
	"sort"
	"strings"
)

const labelTermCount = 3

// BuildLabels derives a short descriptive label per non-noise cluster
// from its most representative terms: term frequency inside the cluster
// weighted by inverse document frequency over the whole run.
func BuildLabels(texts []string, assignments []int) map[int]string {
	docFreq := map[string]int{}
	for _, text := range texts {
		for term := range uniqueTerms(text) {
			docFreq[term]++
		}
	}

	clusterFreq := map[int]map[string]int{}
	for i, text := range texts {
		id := assignments[i]
		if id == Noise {
			continue
		}
		freq := clusterFreq[id]
		if freq == nil {
			freq = map[string]int{}
			clusterFreq[id] = freq
		}
		for _, term := range strings.Fields(text) {
			freq[term]++
		}
	}

	total := float64(len(texts))
	labels := make(map[int]string, len(clusterFreq))
	for id, freq := range clusterFreq {
		type scored struct {
			term  string
			score float64
		}
		ranked := make([]scored, 0, len(freq))
		for term, count := range freq {
			idf := math.Log(1 + total/float64(docFreq[term]))
			ranked = append(ranked, scored{term: term, score: float64(count) * idf})
		}
		sort.Slice(ranked, func(a, b int) bool {
			if ranked[a].score != ranked[b].score {
				return ranked[a].score > ranked[b].score
			}
			return ranked[a].term < ranked[b].term
		})

		n := labelTermCount
		if n > len(ranked) {
			n = len(ranked)
		}
		terms := make([]string, n)
		for i := 0; i < n; i++ {
			terms[i] = ranked[i].term
		}
		labels[id] = strings.Join(terms, " ")
	}

	return labels
}

func uniqueTerms(text string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, term := range strings.Fields(text) {
		terms[term] = struct{}{}
	}
	return terms
}
