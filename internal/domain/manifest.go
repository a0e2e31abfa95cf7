package domain

// ManifestFile is the name of the package manifest in a repository root.
const ManifestFile = "package.json"

// Manifest is the subset of package.json the workflows read.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Path            string            `json:"-"` // Path is not part of package.json
}

// DependencyVersion returns the declared version of pkg from either
// dependency map.
func (m *Manifest) DependencyVersion(pkg string) (string, bool) {
	if v, ok := m.Dependencies[pkg]; ok {
		return v, true
	}
	v, ok := m.DevDependencies[pkg]
	return v, ok
}
