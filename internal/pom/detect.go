package pom

import "strings"

// Exists reports whether d appears to be declared in manifest already.
//
// The check is textual: both <groupId>g</groupId> and <artifactId>a</artifactId>
// must occur somewhere in the manifest, not necessarily in the same block. A
// groupId that only shows up in a parent or property section combined with a
// matching artifactId elsewhere is reported as present.
func Exists(manifest string, d Dependency) bool {
	return strings.Contains(manifest, tag("groupId", d.GroupID)) &&
		strings.Contains(manifest, tag("artifactId", d.ArtifactID))
}
