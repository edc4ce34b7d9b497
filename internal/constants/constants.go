package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for dispatched requests.
	DefaultHTTPTimeout = 20 * time.Second

	// LoginTimeout bounds the token grant request.
	LoginTimeout = 20 * time.Second

	// FileUploadTimeout bounds multipart file uploads.
	FileUploadTimeout = 300 * time.Second
)

// Pagination limits.
const (
	// MaxPageSize is the hard cap on a requested page size.
	MaxPageSize = 1000

	// DefaultPageSize is used by collection traversal when the caller
	// gives no limit.
	DefaultPageSize = 1000
)

// Retry defaults applied when retries are explicitly enabled.
const (
	// DefaultRetryWaitMin is the minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum backoff between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Archive collection naming.
const (
	// ArchivePrefix prefixes the collection an archived entity is stored in.
	ArchivePrefix = "archived_"
)

// CLI defaults.
const (
	// StandardPageSize is the default page size for CLI listings.
	StandardPageSize = 50

	// JSONIndentSize is the indent used for structured CLI output.
	JSONIndentSize = 2

	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)
