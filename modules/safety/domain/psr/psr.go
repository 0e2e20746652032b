// Package psr computes the Personal Safety Rating, a composite 0-100 score
// of a technician's safety compliance.
package psr

import "math"

const (
	ComponentCertifications = "certifications"
	ComponentSafetyDocs     = "safetyDocs"
	ComponentQuizzes        = "quizzes"
	ComponentWorkHistory    = "workHistory"
)

const (
	linkedWeight   = 25
	unlinkedWeight = 33
)

// Input is one component's raw score before weighting.
type Input struct {
	Score   int
	Details map[string]interface{}
}

type Component struct {
	Name    string                 `json:"name"`
	Score   int                    `json:"score"`
	Status  string                 `json:"status"`
	Weight  int                    `json:"weight"`
	Details map[string]interface{} `json:"details"`
}

type Rating struct {
	OverallScore       int         `json:"overallScore"`
	Status             string      `json:"status"`
	IsLinkedToEmployer bool        `json:"isLinkedToEmployer"`
	Components         []Component `json:"components"`
}

// Band maps a score to its label. The same bands apply to the overall score
// and to every component.
func Band(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Needs Work"
	default:
		return "Critical"
	}
}

// Compose combines the component scores into one rating. A technician linked
// to an employer carries four components at 25 points of weight each. An
// unlinked technician has no work history to judge, so that component is
// dropped and the remaining three each take an equal one-third share.
func Compose(linked bool, certifications, safetyDocs, quizzes, workHistory Input) Rating {
	components := []Component{
		newComponent(ComponentCertifications, certifications),
		newComponent(ComponentSafetyDocs, safetyDocs),
		newComponent(ComponentQuizzes, quizzes),
	}
	weight := unlinkedWeight
	if linked {
		weight = linkedWeight
		components = append(components, newComponent(ComponentWorkHistory, workHistory))
	}

	weightedSum := 0
	totalWeight := 0
	for i := range components {
		components[i].Weight = weight
		weightedSum += components[i].Score * weight
		totalWeight += weight
	}

	overall := 0
	if totalWeight > 0 {
		overall = int(math.Round(float64(weightedSum) / float64(totalWeight)))
	}
	return Rating{
		OverallScore:       overall,
		Status:             Band(overall),
		IsLinkedToEmployer: linked,
		Components:         components,
	}
}

func newComponent(name string, in Input) Component {
	return Component{
		Name:    name,
		Score:   in.Score,
		Status:  Band(in.Score),
		Details: in.Details,
	}
}
