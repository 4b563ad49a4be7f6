// Package diagram defines the Diagram record and the Registry, the
// in-memory set of diagrams currently rendered into any buffer.
package diagram
