package logging

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
)

// RecoverPanic logs a panic with its stack and runtime info, then re-panics.
// Use it as the first deferred call of a long-running goroutine:
//
//	defer logging.RecoverPanic(ctx)
func RecoverPanic(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}
	logPanic(ctx, r)
	panic(r)
}

func logPanic(ctx context.Context, r any) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	FromContext(ctx).Error().
		Str(FieldEvent, "panic").
		Str("panic", fmt.Sprint(r)).
		Str("stack", string(debug.Stack())).
		Str("go_version", runtime.Version()).
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("alloc_kb", m.Alloc/1024).
		Uint32("num_gc", m.NumGC).
		Msg("panic recovered")
}
