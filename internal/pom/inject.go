package pom

import (
	"errors"
	"fmt"
	"strings"
)

// AnchorTag is the closing tag new dependency blocks are inserted in front of.
const AnchorTag = "</dependencies>"

const (
	fragmentSeparator = "\n\n"
	// trailingIndent restores the indentation of the anchor line after the
	// injected blocks.
	trailingIndent = "\n  "
)

// ErrAnchorNotFound is matched by every FormatError.
var ErrAnchorNotFound = errors.New("anchor tag not found")

// FormatError is returned by Inject when the manifest has no </dependencies> tag.
type FormatError struct {
	Anchor string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("manifest has no %s tag; make sure the pom.xml is well formed", e.Anchor)
}

// Is lets errors.Is(err, ErrAnchorNotFound) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrAnchorNotFound
}

// Result is the outcome of one Inject call.
type Result struct {
	// Content is the updated manifest. It is the input unchanged when nothing
	// was injected.
	Content string `json:"updatedContent"`

	// Injected and Skipped hold identity keys in input order. Together they
	// cover every input record exactly once.
	Injected []string `json:"injected"`
	Skipped  []string `json:"skipped"`
}

// Changed reports whether any block was injected.
func (r *Result) Changed() bool {
	return len(r.Injected) > 0
}

// Inject adds every dependency in deps that is not already present in manifest.
//
// Presence is checked against the original manifest only, so two records with
// the same key in one call are both injected. New blocks are joined by a blank
// line and inserted in front of the first </dependencies> tag. If the tag is
// missing a *FormatError is returned and no content is produced.
func Inject(manifest string, deps []Dependency) (*Result, error) {
	anchor := strings.Index(manifest, AnchorTag)
	if anchor == -1 {
		return nil, &FormatError{Anchor: AnchorTag}
	}

	result := &Result{
		Content:  manifest,
		Injected: []string{},
		Skipped:  []string{},
	}

	var fragments []string
	for _, d := range deps {
		if Exists(manifest, d) {
			result.Skipped = append(result.Skipped, d.Key())
			continue
		}
		fragments = append(fragments, Render(d))
		result.Injected = append(result.Injected, d.Key())
	}

	if len(fragments) == 0 {
		return result, nil
	}

	block := "\n" + strings.Join(fragments, fragmentSeparator) + trailingIndent

	var b strings.Builder
	b.Grow(len(manifest) + len(block))
	b.WriteString(manifest[:anchor])
	b.WriteString(block)
	b.WriteString(manifest[anchor:])
	result.Content = b.String()

	return result, nil
}
