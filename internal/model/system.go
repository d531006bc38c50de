package model

// VersionInfo contains version and cache layout information for the application.
type VersionInfo struct {
	AppVersion   string `json:"app_version"`
	CacheVersion int    `json:"cache_version"`
	CacheBackend string `json:"cache_backend"`
	DbVersion    string `json:"db_version,omitempty"`
}
