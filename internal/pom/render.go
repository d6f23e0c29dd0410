package pom

import "strings"

// Render returns the <dependency> block for d, indented for a top-level
// <dependencies> section. Values are embedded as-is, without XML escaping.
// The block has no trailing newline.
func Render(d Dependency) string {
	var b strings.Builder
	b.WriteString("    <dependency>\n")
	b.WriteString("      " + tag("groupId", d.GroupID) + "\n")
	b.WriteString("      " + tag("artifactId", d.ArtifactID) + "\n")
	b.WriteString("      " + tag("version", d.Version) + "\n")
	if d.Scope != "" {
		b.WriteString("      " + tag("scope", d.Scope) + "\n")
	}
	if d.Type != "" {
		b.WriteString("      " + tag("type", d.Type) + "\n")
	}
	b.WriteString("    </dependency>")
	return b.String()
}

// tag returns <name>value</name>.
func tag(name, value string) string {
	return "<" + name + ">" + value + "</" + name + ">"
}
