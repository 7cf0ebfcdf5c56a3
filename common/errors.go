package common

// Errors produced by the factory protocol. All of them abort the calling
// transaction as a whole, nothing from a failed workflow persists.
const (
	// ErrLengthMismatch appears when the minter limits and bridges
	// sequences supplied together have different lengths. No limit is
	// applied in this case.
	ErrLengthMismatch = "length mismatch"
	// ErrBadAssetConfig appears when the base asset address and the
	// native flag of a lockbox contradict each other: exactly one of
	// "zero base asset" and "native mode" must hold.
	ErrBadAssetConfig = "bad base asset configuration"
	// ErrCollision appears when a contract already occupies the derived
	// deployment address. Retrying with the same salt deterministically
	// fails again, the caller must pick a new one.
	ErrCollision = "deployment collision"
)
