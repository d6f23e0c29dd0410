// Package scaffold renders the Java usage snippets shown after a preset
// dependency is injected. Snippets are embedded text/template files keyed by
// the preset's example name and receive the injected dependency as data.
package scaffold
