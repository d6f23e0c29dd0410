// Package cli defines the Cobra command tree for springboot-code-mcp. Each
// file registers one top-level command with the root command. Commands parse
// flags and format output; the work is done by the internal packages.
package cli
