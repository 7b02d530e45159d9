// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"phrasex/internal/jsonlutil"
	"phrasex/pkg/api"
)

func init() {
	Register("jsonl", func(Options) (Factory, error) {
		return FactoryFunc(StartJSONLWriter), nil
	})
}

// ToAPI converts a row to the v1 wire type.
func ToAPI(r Row) api.PhrasePairV1 {
	return api.PhrasePairV1{
		Line:        r.Line,
		Source:      r.Source,
		Target:      r.Target,
		SourceStart: r.SourceSpan.Start,
		SourceEnd:   r.SourceSpan.End,
		TargetStart: r.TargetSpan.Start,
		TargetEnd:   r.TargetSpan.End,
	}
}

// StartJSONLWriter streams each Row as one JSON line (v1).
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- Row, <-chan error) {
	return jsonlutil.Start[Row](out, bufSize,
		func(enc *json.Encoder, r Row) error {
			return enc.Encode(ToAPI(r))
		},
		IsBrokenPipe,
	)
}
