package pool

import "errors"

var (
	// ErrExhausted is returned when every slot is live. It is the expected
	// signal of a full pool, not a failure of the pool itself.
	ErrExhausted = errors.New("pool: no free slot")

	// ErrConstruct wraps the error returned by an initializer.
	ErrConstruct = errors.New("pool: construct element")

	ErrCapacity     = errors.New("pool: capacity must not be negative")
	ErrZeroSize     = errors.New("pool: element type has zero size")
	ErrUnderAligned = errors.New("pool: element alignment is below pointer alignment")
	ErrPointerElem  = errors.New("pool: element type contains pointers")
	ErrBuffer       = errors.New("pool: allocate slot buffer")

	ErrForeign    = errors.New("pool: pointer does not belong to pool")
	ErrDoubleFree = errors.New("pool: slot is already free")
	ErrLiveSlots  = errors.New("pool: closed with live slots")
	ErrClosed     = errors.New("pool: closed")
)
