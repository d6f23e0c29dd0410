// Package server exposes the tool registry to MCP clients over JSON-RPC 2.0.
//
// Two transports share one dispatcher: newline-delimited JSON on stdio, and
// HTTP POST on a configurable path with a /health probe. The HTTP transport
// issues an Mcp-Session-Id on initialize and answers notifications with 202.
package server
