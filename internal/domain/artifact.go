package domain

// Artifact describes the local copy of the external test engine.
// When Present is true, the file at Path exists and Version matches the
// sibling version file.
type Artifact struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Present bool   `json:"present"`
}

// VersionFile is the JSON document stored beside the artifact.
type VersionFile struct {
	Version string `json:"version"`
}
