package isnad

import (
	"github.com/hyperjump/rawi/internal/models"
	"github.com/hyperjump/rawi/pkg/utils"
)

// Aggregation weights for the overall confidence percentage.
const (
	chainWeight     = 0.4
	structureWeight = 0.6
)

// Aggregate combines chain and structure scores into one confidence in
// [0, 100]. Total function: zero inputs yield zero.
func Aggregate(chain models.ChainResult, structure models.StructureAnalysis) int {
	return utils.RoundPercent(float64(chain.Confidence)*chainWeight + float64(structure.Score)*structureWeight)
}
