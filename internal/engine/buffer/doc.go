// Package buffer provides the text buffer model used by the render
// pipeline: line-indexed content, a stable buffer identifier, and
// filetype detection. Integrations read buffers through this package
// to locate embedded diagram source.
package buffer
