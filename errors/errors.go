package errors

import "fmt"

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrInvalidTeamName     = fmt.Errorf("invalid team name")
	ErrMalformedPacket     = fmt.Errorf("malformed packet")
	ErrUnknownDiscriminant = fmt.Errorf("unknown discriminant")
	ErrUnknownMode         = fmt.Errorf("unknown packet mode")
)
