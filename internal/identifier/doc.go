// Package identifier normalizes the external pan-identifier strings emitted
// by the detection models into canonical tokens.
//
// The three upstream detectors disagree on identifier shape: the generative
// model emits "<32-hex>__<number>___<descriptive suffix>" composites, the
// YOLO detector emits shorter composites or bare numbers, and audited records
// carry plain catalog ids. Normalize extracts the comparable tokens from any
// of these; Sanitize collapses the detectors' many "no value" spellings to
// the empty string.
//
// Every function in this package is total: arbitrary or empty input degrades
// to empty tokens, never to an error.
package identifier
