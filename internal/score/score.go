package score

import (
	"math"
	"strings"

	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
)

const (
	structureBase  = 40
	structureBonus = 10

	structureWeight = 0.4
	coverageWeight  = 0.6
)

// GeoScores is the score block of an analysis.
// CoverageRatio is the raw [0,1] ratio; QuestionCoverageScore is the same
// value on the [0,100] scale used by the final score.
type GeoScores struct {
	StructureScore        int     `json:"structureScore"`
	CoverageRatio         float64 `json:"coverageRatio"`
	QuestionCoverageScore float64 `json:"questionCoverageScore"`
	FinalScore            int     `json:"finalScore"`
}

// Structure rates how well the page is laid out for answer engines.
// Base 40, plus 10 each for a title, a description, two or more headings
// and three or more page questions.
func Structure(meta extractor.MetaRecord, headings []string, pageQuestions []string) int {
	s := structureBase
	if strings.TrimSpace(meta.Title) != "" {
		s += structureBonus
	}
	if strings.TrimSpace(meta.Description) != "" {
		s += structureBonus
	}
	if len(headings) >= 2 {
		s += structureBonus
	}
	if len(pageQuestions) >= 3 {
		s += structureBonus
	}
	return clamp(s, 0, 100)
}

// Compose weighs structure at 40% and question coverage at 60%.
func Compose(structure int, coverageRatio float64) GeoScores {
	coverageScore := coverageRatio * 100
	final := math.Round(float64(structure)*structureWeight + coverageScore*coverageWeight)
	return GeoScores{
		StructureScore:        structure,
		CoverageRatio:         coverageRatio,
		QuestionCoverageScore: coverageScore,
		FinalScore:            clamp(int(final), 0, 100),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
