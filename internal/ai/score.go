package ai

// Score computes the dot product of policy's weight vector for c.Type with
// c.Features. Action types with no features (or no weights configured)
// score 0. Weight positions beyond the feature vector's length are ignored.
func Score(p Policy, c Candidate) float64 {
	if len(c.Features) == 0 {
		return 0
	}
	weights, ok := p.Actions[c.Type]
	if !ok || len(weights.W) == 0 {
		return 0
	}
	n := len(c.Features)
	if len(weights.W) < n {
		n = len(weights.W)
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += weights.W[i] * c.Features[i]
	}
	return total
}

// Explorer supplies the randomness the epsilon-greedy rule needs. *rand.Rand
// satisfies this, letting tests inject a seeded source for deterministic
// selection.
type Explorer interface {
	Float64() float64
	Intn(n int) int
}

// SelectAction implements §4.5 selection: argmax by score, then with
// probability epsilon, replace the choice with a uniform pick among the
// remaining candidates.
func SelectAction(p Policy, candidates []Candidate, explorer Explorer) Candidate {
	best := 0
	bestScore := Score(p, candidates[0])
	for i := 1; i < len(candidates); i++ {
		s := Score(p, candidates[i])
		if s > bestScore {
			bestScore = s
			best = i
		}
	}

	if len(candidates) == 1 {
		return candidates[0]
	}

	if explorer.Float64() < p.Epsilon {
		remaining := make([]Candidate, 0, len(candidates)-1)
		for i, c := range candidates {
			if i != best {
				remaining = append(remaining, c)
			}
		}
		idx := explorer.Intn(len(remaining))
		return remaining[idx]
	}

	return candidates[best]
}
