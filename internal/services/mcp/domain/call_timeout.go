package domain

import "time"

// toolCallTimeout caps the time for a single combat command from an MCP tool
// handler.
const toolCallTimeout = 5 * time.Second
