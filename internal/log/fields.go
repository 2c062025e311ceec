package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldFile         = "file"
	FieldOriginalName = "original_name"
	FieldRowCount     = "row_count"
	FieldCategory     = "category"
	FieldSheetName    = "sheet_name"
	FieldSessionID    = "session_id"
	FieldDBPath       = "db_path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentFileStore = "filestore"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentLoader    = "loader"
	ComponentReconcile = "reconcile"
	ComponentSession   = "session"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpUpload   = "upload"
	OpLoad     = "load"
	OpSave     = "save"
	OpMerge    = "merge"
	OpBulk     = "bulk_apply"
	OpEvict    = "evict"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
