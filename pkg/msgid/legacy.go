package msgid

import "time"

// Decoder for identifiers produced before the fixed-width layout existed.
// Implementations receive the identifier exactly as supplied by the caller.
type LegacyCodec interface {
	Address(id string) (address []byte, err error)
	ProcessID(id string) (pid int, err error)
	ApproxTime(id string) (timestamp time.Time, err error)
}
