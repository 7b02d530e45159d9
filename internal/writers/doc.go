// Package writers turns extracted phrase pairs into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text, TSV, JSONL, SQLite).
//   - core/phrase stays domain-only; the pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
