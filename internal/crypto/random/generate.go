// Process-wide secure random source
package random

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

const HardwareAddrLen int = 6

// Serialised reader shared by every caller in the process
type Source struct {
	mutex  sync.Mutex
	reader io.Reader
}

var (
	sharedOnce   sync.Once
	sharedSource *Source
)

// Returns the process-wide source, creating it on first use
func Shared() (source *Source) {
	sharedOnce.Do(func() {
		sharedSource = NewSource(rand.Reader)
	})
	source = sharedSource
	return
}

// Wraps reader so concurrent callers take turns
func NewSource(reader io.Reader) (source *Source) {
	source = &Source{reader: reader}
	return
}

// Fills buf completely
func (source *Source) Read(buf []byte) (n int, err error) {
	source.mutex.Lock()
	defer source.mutex.Unlock()

	n, err = io.ReadFull(source.reader, buf)
	if err != nil {
		err = fmt.Errorf("failed reading random bytes: %w", err)
		return
	}
	return
}

// Random 6-byte value shaped like a hardware address
func (source *Source) HardwareAddress() (addr []byte, err error) {
	addr = make([]byte, HardwareAddrLen)
	_, err = source.Read(addr)
	if err != nil {
		addr = nil
		return
	}
	return
}
