// Package pipeline orchestrates a document through the five detection
// phases: analyze, identify, levels, assemble, reflect.
//
// The judge is optional. Without one the pipeline is fully
// deterministic: authoritative entries plus the numbering and font
// scorer. With one, heuristic identification and level resolution go
// through the model, and reflection can audit the finished outline.
// Authoritative entries outrank heuristic findings either way.
package pipeline
