package config

// manifestFile mirrors the keel.yaml document. Dependencies are decoded
// through yaml.Node in the loader so declaration order is preserved.
type manifestFile struct {
	Name string `yaml:"name"`
}

// DependencyDTO is one dependency declaration in keel.yaml. The source kind
// decides which location fields are meaningful.
type DependencyDTO struct {
	Source  string `yaml:"source"`
	Version string `yaml:"version,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Ref     string `yaml:"ref,omitempty"`
	Hash    string `yaml:"hash,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Owner   string `yaml:"owner,omitempty"`
	Repo    string `yaml:"repo,omitempty"`
}

// policyFile mirrors the keel.policy.yaml document.
type policyFile struct {
	Allow       []string `yaml:"allow"`
	Deny        []string `yaml:"deny"`
	RequireHash bool     `yaml:"require_hash"`
}
