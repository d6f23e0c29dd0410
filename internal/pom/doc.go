// Package pom injects Maven dependency declarations into pom.xml text.
// It works on the raw manifest text rather than a parsed document: a record is
// rendered as a fixed-indentation <dependency> block, a record counts as present
// when its groupId and artifactId markers both appear in the text, and new blocks
// are spliced in front of the first </dependencies> tag. Everything outside the
// insertion point is left byte-for-byte unchanged.
package pom
