package model

// VersionInfo describes the running build, the applied schema version and
// which optional features are configured.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	Commit           string          `json:"commit"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}
