// Package config manages user-level settings stored at
// ~/.springboot-code-mcp/config.yaml: the server transport mode, HTTP port and
// path, an optional overlay preset file, and whether manifests are backed up
// before they are rewritten. The MCP_MODE, MCP_HTTP_PORT and MCP_HTTP_PATH
// environment variables are honoured alongside the SBCM_ prefixed ones.
package config
