package msgid

import "errors"

var (
	ErrMalformedHex   = errors.New("identifier contains non-hex characters")
	ErrBufferTooShort = errors.New("identifier too short for modern layout")
)
