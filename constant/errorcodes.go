package constant

// Domain service error codes
const (
	// Code service - Validation errors (0xx)
	ErrCodeEmptySlug    = "SVC001"
	ErrCodeInvalidStyle = "SVC002"
	ErrCodeInvalidSlug  = "SVC003"
	ErrCodeSlugExists   = "SVC004"

	// Code service - Storage errors (1xx)
	ErrCodeStorageFailure = "SVC101"
	ErrCodeUpdateFailure  = "SVC102"
	ErrCodeDeleteFailure  = "SVC103"

	// Code service - Retrieval errors (2xx)
	ErrCodeSlugNotFound = "SVC201"

	// Code service - Stats errors (3xx)
	ErrCodeIncrementScans = "SVC301"

	// Code service - Redirect policy errors (4xx)
	ErrCodeUnsafeDestination = "SVC401"
)

// Render engine error codes
const (
	ErrCodeQREncode    = "QR001"
	ErrCodeQRCapacity  = "QR002"
	ErrCodeQRRender    = "QR101"
	ErrCodeQRDimension = "QR102"
	ErrCodeQRPreset    = "QR103"
)

// URL validation error codes
const (
	ErrCodeURLEmpty       = "URL001"
	ErrCodeURLTooLong     = "URL002"
	ErrCodeURLMalformed   = "URL003"
	ErrCodeURLProtocol    = "URL004"
	ErrCodeURLBlockedHost = "URL005"
	ErrCodeURLCredentials = "URL006"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Store operation errors (1xx)
	ErrCodeDBCheckExists = "DB101"
	ErrCodeDBInsert      = "DB102"

	// Lookup operation errors (2xx)
	ErrCodeDBLookup     = "DB201"
	ErrCodeDBScanRows   = "DB202"
	ErrCodeDBRowIterate = "DB203"

	// Mutation operation errors (3xx)
	ErrCodeDBIncrement = "DB301"
	ErrCodeDBUpdate    = "DB302"
	ErrCodeDBDelete    = "DB303"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"

	// Artifact cache operation errors (6xx)
	ErrCodeDBArtifactGet   = "DB601"
	ErrCodeDBArtifactPut   = "DB602"
	ErrCodeDBArtifactPurge = "DB603"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeRetrieval  = "retrieval"
	ErrTypeStats      = "stats"
	ErrTypePolicy     = "policy"
	ErrTypeRender     = "render"

	// Infrastructure error types
	ErrTypeDB = "db"
)
