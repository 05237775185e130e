package fim

import "errors"

var (
	// ErrNotInitialized is returned by WriteChunk when no InitializeUpdate
	// call has prepared the write cursor.
	ErrNotInitialized = errors.New("fim: update not initialized")
	// ErrImageTooLarge is returned when a requested image size exceeds the
	// application flash region.
	ErrImageTooLarge = errors.New("fim: image does not fit in flash")
	// ErrImageInvalid is returned by Finalize when the streamed length or
	// recomputed CRC does not match what InitializeUpdate declared.
	ErrImageInvalid = errors.New("fim: image invalid (length or CRC mismatch)")
	// ErrFlashWrite wraps a Flash.ProgramPage/EraseBlock failure.
	ErrFlashWrite = errors.New("fim: flash write failed")
)
