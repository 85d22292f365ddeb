package operators

import "github.com/rs/zerolog"

// Logger is the package-level structured logger used for cache,
// factorization, and coefficient-update diagnostics. It defaults to a
// disabled logger: embedding this package in a solver must opt in to log
// output rather than have it appear unsolicited.
//
//	operators.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
var Logger = zerolog.Nop()
