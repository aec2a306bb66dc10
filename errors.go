package dirsearch

import (
	"errors"

	"github.com/pdrpinto/dirsearch/internal"
)

var (
	// ErrBrokenChain is returned when a path cannot be rebuilt from the
	// predecessor map. It is never expected and always fatal for the run.
	ErrBrokenChain = internal.ErrBrokenChain

	// ErrInvalidParams is returned before any work when Params are unusable.
	ErrInvalidParams = errors.New("invalid search parameters")

	// ErrUnknownStrategy is returned for strategy names ParseStrategy does
	// not recognise.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// errInvalidStitch rejects a bidirectional candidate path. The search
	// keeps going when it sees it.
	errInvalidStitch = errors.New("invalid stitched path")
)
