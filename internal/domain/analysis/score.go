package analysis

import "fmt"

// recommendationThreshold marks a dimension as needing attention.
const recommendationThreshold = 60.0

var recommendations = map[Category]string{
	CategoryMental:     "Recomenda-se trabalhar clareza mental: práticas de meditação guiada e higiene do sono.",
	CategoryEmocional:  "Recomenda-se equilíbrio emocional: florais de Bach e acompanhamento terapêutico regular.",
	CategoryEnergetico: "Recomenda-se harmonização energética: sessões de Reiki e cromoterapia.",
	CategoryFisico:     "Recomenda-se atenção ao corpo físico: aromaterapia e revisão de hábitos de movimento.",
	CategoryEspiritual: "Recomenda-se reconexão espiritual: práticas contemplativas e radiestesia.",
}

// Score turns a complete answer set into per-category results. Each
// dimension scores the mean of its answer values (1..5) scaled to 0..100;
// dimensions below the threshold contribute a recommendation.
func Score(answers map[string]int) Results {
	sums := make(map[Category]int)
	counts := make(map[Category]int)
	for _, question := range Catalog {
		v, ok := answers[question.ID]
		if !ok {
			continue
		}
		sums[question.Category] += v
		counts[question.Category]++
	}

	results := Results{Categories: make(map[string]float64, len(Categories))}
	for _, cat := range Categories {
		n := counts[cat]
		if n == 0 {
			continue
		}
		score := float64(sums[cat]) / float64(n) / 5.0 * 100.0
		results.Categories[string(cat)] = score
		if score < recommendationThreshold {
			if rec, ok := recommendations[cat]; ok {
				results.Recommendations = append(results.Recommendations, rec)
			} else {
				results.Recommendations = append(results.Recommendations,
					fmt.Sprintf("Recomenda-se atenção à dimensão %s.", CategoryLabels[cat]))
			}
		}
	}
	return results
}
