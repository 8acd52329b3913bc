package store

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control lock expiry in assertions.
var timeNow = time.Now
