// pkg/api/spans_v1.go
package api

// SpanV1 is one labelled span read from a SENNA block.
type SpanV1 struct {
	Block int    `json:"block"`
	Label string `json:"label"`
	Text  string `json:"text"`
}
