// Package tools defines the named operations exposed to MCP clients: preset
// and custom dependency injection into pom.xml files, the preset listing, and
// help. Each tool carries a JSON Schema for its arguments; arguments are
// validated before the handler runs and failures come back as error results
// rather than protocol errors.
package tools
