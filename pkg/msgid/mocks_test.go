package msgid

import "time"

// Function-backed legacy codec recording every id it receives
type mockLegacyCodec struct {
	addressFunc    func(id string) ([]byte, error)
	processIDFunc  func(id string) (int, error)
	approxTimeFunc func(id string) (time.Time, error)
	seen           []string
}

func (mock *mockLegacyCodec) Address(id string) (address []byte, err error) {
	mock.seen = append(mock.seen, id)
	if mock.addressFunc != nil {
		address, err = mock.addressFunc(id)
	}
	return
}

func (mock *mockLegacyCodec) ProcessID(id string) (pid int, err error) {
	mock.seen = append(mock.seen, id)
	if mock.processIDFunc != nil {
		pid, err = mock.processIDFunc(id)
	}
	return
}

func (mock *mockLegacyCodec) ApproxTime(id string) (timestamp time.Time, err error) {
	mock.seen = append(mock.seen, id)
	if mock.approxTimeFunc != nil {
		timestamp, err = mock.approxTimeFunc(id)
	}
	return
}
