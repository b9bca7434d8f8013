package results

// SystemIdentity describes the environment a ResultSet was produced in.
type SystemIdentity struct {
	Platform       string `json:"os" yaml:"os"`
	RuntimeVersion string `json:"runtime_version" yaml:"runtime_version"`
}

// Label returns the human-readable environment label, e.g. "Linux go1.23.4".
func (id SystemIdentity) Label() string {
	return id.Platform + " " + id.RuntimeVersion
}
