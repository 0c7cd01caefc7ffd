package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidContract      ErrorCode = 103
	ErrCodeInvalidInterval      ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105

	// Connection errors (200-299)
	ErrCodeNotConnected      ErrorCode = 200
	ErrCodeDialFailed        ErrorCode = 201
	ErrCodeHandshakeTimeout  ErrorCode = 202
	ErrCodeTransportClosed   ErrorCode = 203
	ErrCodeManualDisconnect  ErrorCode = 204
	ErrCodeVenueRejected     ErrorCode = 205
	ErrCodeEncodeFailed      ErrorCode = 206
	ErrCodeDecodeFailed      ErrorCode = 207

	// Request correlation errors (300-399)
	ErrCodeDuplicateRequest ErrorCode = 300
	ErrCodeRequestTimeout   ErrorCode = 301
	ErrCodeRequestFailed    ErrorCode = 302
	ErrCodeRequestNotFound  ErrorCode = 303

	// Data feed errors (400-499)
	ErrCodeFeedNotSubscribed   ErrorCode = 400
	ErrCodeFeedAlreadyAssigned ErrorCode = 401
	ErrCodeNoDatasource        ErrorCode = 402
	ErrCodeIntervalChanged     ErrorCode = 403

	// Order errors (500-599)
	ErrCodeOrderFailed          ErrorCode = 500
	ErrCodeOrderNotFound        ErrorCode = 501
	ErrCodeUnsupportedOrderType ErrorCode = 502
	ErrCodeNoMarketData         ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestStateNil   ErrorCode = 600
	ErrCodeBacktestInitFailed ErrorCode = 601

	// Storage errors (700-799)
	ErrCodeQueryFailed    ErrorCode = 700
	ErrCodeWriteFailed    ErrorCode = 701
	ErrCodeDataNotFound   ErrorCode = 702
	ErrCodeDatasetMissing ErrorCode = 703

	// Coordinator errors (800-899)
	ErrCodeCoordinatorStopped ErrorCode = 800
	ErrCodeQueueFull          ErrorCode = 801
)
