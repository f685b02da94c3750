package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSeries        ErrorCode = 102
	ErrCodeInvalidSignal        ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Strategy errors (300-399)
	ErrCodeStrategyNotFound      ErrorCode = 300
	ErrCodeStrategyAlreadyExists ErrorCode = 301
	ErrCodeStrategyConfigError   ErrorCode = 302
	ErrCodeStrategyContract      ErrorCode = 303

	// Engine errors (400-499)
	ErrCodeEngineConfigError ErrorCode = 400
	ErrCodeEngineRunFailed   ErrorCode = 401

	// Store errors (500-599)
	ErrCodeStoreAppendFailed ErrorCode = 500
	ErrCodeStoreReadFailed   ErrorCode = 501
	ErrCodeStoreExportFailed ErrorCode = 502

	// Fetch errors (600-699)
	ErrCodeFetchFailed       ErrorCode = 600
	ErrCodeFetchWriteFailed  ErrorCode = 601
	ErrCodeMissingCredential ErrorCode = 602
)
