package qdrantDB

import "math"

// candidate is one scored hit from the vector store, carrying enough to be
// re-ranked locally: its similarity to the query and its own vector.
type candidate struct {
	score  float32
	vector []float32
	text   string
	meta   map[string]any
}

// mmrRerank selects up to k candidate indexes by maximal marginal relevance:
// each pick maximizes lambda*sim(query, c) - (1-lambda)*max_sim(c, picked).
// lambda=1 degenerates to plain nearest-k; lower values trade relevance for
// diversity among the selected set.
func mmrRerank(candidates []candidate, k int, lambda float64) []int {
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}

	selected := make([]int, 0, k)
	remaining := make(map[int]struct{}, len(candidates))
	for i := range candidates {
		remaining[i] = struct{}{}
	}

	for len(selected) < k {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i := range remaining {
			redundancy := 0.0
			for _, s := range selected {
				sim := cosineSimilarity(candidates[i].vector, candidates[s].vector)
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*float64(candidates[i].score) - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, bestIdx)
		delete(remaining, bestIdx)
	}
	return selected
}

func cosineSimilarity(a []float32, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
