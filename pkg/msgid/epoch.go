package msgid

import "time"

// Base instant for modern-layout timestamps (2021-01-01T00:00:00Z)
var Epoch = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
