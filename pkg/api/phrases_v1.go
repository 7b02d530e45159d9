// pkg/api/phrases_v1.go
package api

// PhrasePairV1 is the stable JSON/JSONL schema for an extracted phrase pair.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type PhrasePairV1 struct {
	Line        int    `json:"line"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	SourceStart int    `json:"source_start"`
	SourceEnd   int    `json:"source_end"`
	TargetStart int    `json:"target_start"`
	TargetEnd   int    `json:"target_end"`
}
