// Package reader loads source documents into the flat text-unit stream
// and authoritative outline entries the detection pipeline consumes.
//
// Each format maps to the same shape: a Document with one Unit per text
// line (or block) and zero or more Entry values from structure the
// format records explicitly (PDF bookmarks, markdown headings, HTML
// heading tags). PDF units carry font metadata; for the other formats
// "page" is the unit's 1-based line or block position and font fields
// stay zero.
package reader
