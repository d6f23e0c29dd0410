// Package pomfile reads and rewrites pom.xml files on disk around the pure
// injection engine in package pom.
//
// Writes go to a temporary file in the target directory and are renamed over
// the original, so readers never observe a half-written manifest. An Injector
// serializes read-modify-write cycles per absolute path; distinct files are
// processed concurrently.
package pomfile
