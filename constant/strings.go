package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderRetryAfter = "Retry-After"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain            = "domain"
	CtxCreateCode        = "CreateCode"
	CtxGetCode           = "GetCode"
	CtxListCodes         = "ListCodes"
	CtxUpdateDestination = "UpdateDestination"
	CtxUpdateStyle       = "UpdateStyle"
	CtxDeleteCode        = "DeleteCode"
	CtxResolve           = "Resolve"
	CtxRenderSVG         = "RenderSVG"
	CtxExportPNG         = "ExportPNG"
	CtxExportPDF         = "ExportPDF"

	// Infrastructure context names
	CtxDB             = "db"
	CtxStore          = "Store"
	CtxFindBySlug     = "FindBySlug"
	CtxListAll        = "ListAll"
	CtxUpdateRecord   = "UpdateRecord"
	CtxDeleteRecord   = "DeleteRecord"
	CtxIncrementScans = "IncrementScans"
	CtxArtifactGet    = "ArtifactGet"
	CtxArtifactPut    = "ArtifactPut"
	CtxArtifactPurge  = "ArtifactPurge"
	CtxClose          = "Close"
	CtxAPI            = "api"
	CtxRateLimit      = "RateLimit"

	// General context names
	CtxRouter      = "Router"
	CtxMain        = "Main"
	CtxRedirect    = "Redirect"
	CtxValidateURL = "ValidateURL"
)

// Data field keys
const (
	// Service data fields
	DataService     = "service"
	DataSlug        = "slug"
	DataDestination = "destination"
	DataCustomSlug  = "custom_slug"
	DataCustom      = "custom"
	DataScans       = "scans"
	DataLabel       = "label"
	DataStyleHash   = "style_hash"
	DataLogoRatio   = "logo_ratio"
	DataRule        = "rule"
	DataFormat      = "format"
	DataWidth       = "width"
	DataPreset      = "preset"
	DataBytes       = "bytes"
	DataCacheHit    = "cache_hit"

	// Database data fields
	DataPath         = "path"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// API data fields
	DataMethod      = "method"
	DataIP          = "ip"
	DataAgent       = "agent"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataSize        = "size"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
	DataBaseURL     = "base_url"
	DataLimit       = "limit"
	DataWindow      = "window"
)

// Error message constants
const (
	ErrEmptyDestination   = "destination URL cannot be empty"
	ErrEmptySlug          = "slug cannot be empty"
	ErrInvalidSlug        = "slug must be 3-64 characters of letters, digits or dashes"
	ErrSlugExists         = "slug already exists"
	ErrSlugNotFound       = "slug not found"
	ErrInvalidDestination = "destination URL rejected"
	ErrUnsafeDestination  = "stored destination failed safety re-check"
	ErrInvalidStyle       = "style rejected"
	ErrArtifactNotFound   = "artifact not found"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIRateLimited    = "API003"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types
const (
	ErrTypeDomain = "domain"
	ErrTypeAPI    = "api"
	ErrTypeApp    = "application"
)

// API routes
const (
	RouteCreateCode        = "/api/codes"
	RouteListCodes         = "/api/codes"
	RouteGetCode           = "/api/codes/{slug}"
	RouteUpdateDestination = "/api/codes/{slug}/destination"
	RouteUpdateStyle       = "/api/codes/{slug}/style"
	RouteDeleteCode        = "/api/codes/{slug}"
	RouteExportSVG         = "/api/codes/{slug}/svg"
	RouteExportPNG         = "/api/codes/{slug}/png"
	RouteExportPDF         = "/api/codes/{slug}/pdf"
	RouteValidateURL       = "/api/urls/validate"
	RouteRedirect          = "/r/{slug}"
	RouteLinkDisabled      = "/link-disabled"
	RouteHealthcheck       = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Message constants for application
const (
	MsgApplicationStarting    = "Application starting"
	MsgFailedToInitDB         = "Failed to initialize database"
	MsgServerStarting         = "Server starting"
	MsgServerFailedToStart    = "Server failed to start"
	MsgServerShuttingDown     = "Server shutting down"
	MsgServerShutdownError    = "Error during server shutdown"
	MsgServerStopped          = "Server stopped"
	MsgRequestReceived        = "Request received"
	MsgHandlingCreateRequest  = "Handling create code request"
	MsgProcessingRedirect     = "Processing redirect request"
	MsgSettingUpRoutes        = "Setting up API routes"
	MsgHealthcheckRequest     = "Handling healthcheck request"
	MsgHealthy                = "Healthy"
	MsgRequestCompleted       = "Request completed"
	MsgRedirectBlocked        = "Redirect blocked by destination re-check"
	MsgLinkDisabledPage       = "This link has been disabled because its destination failed a safety check."
	MsgRateLimitExceeded      = "Rate limit exceeded"
	MsgDestinationRejected    = "Destination URL rejected by policy"
	MsgLogoRatioAboveAdvised  = "Logo ratio above recommended scannability threshold"
	MsgArtifactCacheHit       = "Artifact served from cache"
	MsgArtifactCacheMiss      = "Artifact rendered and cached"
)

// Cache Namespace
const (
	CodeNamespace     = "CODE"
	ArtifactNamespace = "ARTIFACT"
)
