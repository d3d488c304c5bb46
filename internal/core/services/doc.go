// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The user-facing strings returned by both boundaries (MCP and CLI)
// are produced here, in messages.go.
package services
