package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// InvalidValue is returned when a stored value can't be decoded into the requested width.
	InvalidValue = ErrorKind("Invalid Value")

	// Unsupported is returned when a feature or configuration is not supported.
	Unsupported = ErrorKind("Unsupported")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")
)

// Ledger and issuance failures. Every one of them aborts the whole call.
const (
	// Overflow is returned when an addition exceeds the uint128 range.
	Overflow = OverflowUint128

	// InsufficientBalance is returned when a non-issuer holder would go below zero.
	InsufficientBalance = ErrorKind("insufficient balance")

	// AlreadyMinted is returned when the block hash was already honored by the issuer.
	AlreadyMinted = ErrorKind("already minted for block")

	// AlreadyInitialized is returned when a contract is initialized twice.
	AlreadyInitialized = ErrorKind("already initialized")

	// NotInitialized is returned when minting from a contract that was never initialized.
	NotInitialized = ErrorKind("not initialized")

	// SupplyExceeded is returned when an issuance would breach, or has reached, the supply ceiling.
	SupplyExceeded = ErrorKind("supply exceeded")

	// UnknownOpcode is returned when a call's opcode has no handler.
	UnknownOpcode = ErrorKind("unknown opcode")

	// MalformedBlock is returned when block bytes can't be parsed.
	MalformedBlock = ErrorKind("malformed block")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
