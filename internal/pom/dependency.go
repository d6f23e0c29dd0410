package pom

import (
	"fmt"
	"strings"
)

// Dependency is a single Maven dependency declaration.
type Dependency struct {
	GroupID    string `yaml:"groupId" json:"groupId"`
	ArtifactID string `yaml:"artifactId" json:"artifactId"`
	Version    string `yaml:"version" json:"version"`
	Scope      string `yaml:"scope,omitempty" json:"scope,omitempty"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Key returns the identity key "groupId:artifactId". Version, scope and type
// are not part of a dependency's identity.
func (d Dependency) Key() string {
	return d.GroupID + ":" + d.ArtifactID
}

// String returns the key with the version appended.
func (d Dependency) String() string {
	return d.Key() + ":" + d.Version
}

// Validate reports the first missing required field. Inject does not call it;
// it is meant for callers accepting records from outside the process.
func (d Dependency) Validate() error {
	switch {
	case strings.TrimSpace(d.GroupID) == "":
		return fmt.Errorf("dependency groupId is required")
	case strings.TrimSpace(d.ArtifactID) == "":
		return fmt.Errorf("dependency %s: artifactId is required", d.GroupID)
	case strings.TrimSpace(d.Version) == "":
		return fmt.Errorf("dependency %s: version is required", d.Key())
	}
	return nil
}

// Keys returns the identity keys of deps in order.
func Keys(deps []Dependency) []string {
	keys := make([]string, 0, len(deps))
	for _, d := range deps {
		keys = append(keys, d.Key())
	}
	return keys
}
