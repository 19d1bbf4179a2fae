package alloc

import (
	"fmt"
	"os"
)

// Runtime debug flag for growth logging - controlled by TSALLOC_LOG env var.
var logAlloc = os.Getenv("TSALLOC_LOG") != ""

func debugf(format string, args ...any) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[tsalloc] "+format+"\n", args...)
	}
}
