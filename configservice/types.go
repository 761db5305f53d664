package configservice

// ProjectSection contains the keys of .configs.yaml that describe what a project syncs
type ProjectSection struct {
	RemoteRoot string   `yaml:"remote_root,omitempty"`
	Files      []string `yaml:"files"`
}
