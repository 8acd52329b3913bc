package validate

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to pin report timestamps.
var timeNow = time.Now
