package models

// BundleVersion is the format version written into every export bundle.
// Import does not reject other versions: any payload carrying an entries
// array is accepted.
const BundleVersion = "1.0"

// BundleUser is the owner summary embedded in an export bundle.
type BundleUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExportBundle is the versioned export/import payload for a user's
// entries. The JSON shape is the exchange format of the application and
// must stay stable across releases.
type ExportBundle struct {
	// User identifies who exported the bundle, nil when the export was
	// produced without a session.
	User *BundleUser `json:"user"`

	// Entries is the full entry list at export time.
	Entries []Entry `json:"entries"`

	// ExportDate is the ISO-8601 timestamp of the export.
	ExportDate string `json:"exportDate"`

	// Version is the bundle format version, currently "1.0".
	Version string `json:"version"`
}
