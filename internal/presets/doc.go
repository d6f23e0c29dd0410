// Package presets holds the catalog of named dependency bundles (SSO, FEIGN,
// and the BOTH alias) that tools and the CLI resolve symbolic tags against.
// The built-in catalog is embedded; an optional overlay file with the same
// layout can add presets or replace built-ins by tag. Catalog files are
// validated against an embedded JSON Schema before use.
package presets
