// Package domain translates MCP tool calls into combat tracker commands.
//
// Each tool resolves the caller from the MCP context, runs one service
// command and returns a structured result that MCP clients can render.
// Announcements hidden from the caller are filtered out of results.
package domain
