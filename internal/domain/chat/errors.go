package chat

import "errors"

// Step-level failure taxonomy for the message pipeline. Every step error is
// wrapped around one of these sentinels so the orchestrator can branch with
// errors.Is without inspecting error strings.
var (
	// ErrStoreUnavailable indicates the backing store cannot be reached.
	// Fatal for the current message.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrWriteConflict indicates a constraint violation on write.
	// Retryable by the orchestrator at most once.
	ErrWriteConflict = errors.New("write conflict")

	// ErrMalformedOracleOutput indicates the model response could not be
	// parsed into the expected structure. Non-fatal; triggers an apology.
	ErrMalformedOracleOutput = errors.New("malformed oracle output")

	// ErrUnsafeQuery indicates the synthesized query failed the read-only or
	// ownership re-validation. The query must never reach the executor.
	ErrUnsafeQuery = errors.New("unsafe query rejected")

	// ErrQueryExecution indicates the store rejected or timed out the read
	// query. Non-fatal; triggers an apology.
	ErrQueryExecution = errors.New("report query execution failed")

	// ErrDeliveryFailure indicates the outbound send failed. Logged, never
	// retried; delivery is at-most-once.
	ErrDeliveryFailure = errors.New("outbound delivery failed")
)
