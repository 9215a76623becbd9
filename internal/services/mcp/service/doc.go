// Package service wires protocol transport to the combat tracker.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or streamable HTTP, serves the announcement feed next to it, and
// delegates meaning to the tool handlers in the MCP domain package.
package service
