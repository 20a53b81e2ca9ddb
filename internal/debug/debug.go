package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	once sync.Once
	mu   sync.Mutex
	out  *os.File
)

// Log appends a formatted message to the debug file, if enabled.
// Safe to call from any goroutine. No-op unless HIT_DEBUG names a
// writable file path.
func Log(format string, args ...any) {
	once.Do(open)
	if out == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

func open() {
	path := os.Getenv("HIT_DEBUG")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return // Debug logging is best-effort
	}
	out = f
}
