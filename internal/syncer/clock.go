package syncer

import "time"

// now is a seam for tests that need deterministic timestamps.
var now = time.Now
