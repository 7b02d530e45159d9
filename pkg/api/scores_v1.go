// pkg/api/scores_v1.go
package api

// BLEUScoreV1 is the JSON form of a corpus BLEU score. Values are the raw
// fractions, not percentages.
type BLEUScoreV1 struct {
	BLEU       float64    `json:"bleu"`
	Precisions [4]float64 `json:"precisions"`
	BP         float64    `json:"brevity_penalty"`
	Ratio      float64    `json:"ratio"`
	HypLen     int        `json:"hyp_len"`
	RefLen     int        `json:"ref_len"`
}
