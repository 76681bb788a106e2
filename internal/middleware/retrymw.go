package middleware

import "github.com/siumai-go/siumai/internal/executor"

// AttachRetry installs opts on exec's retry policy. Unlike the other
// built-ins, retry attachment configures the executor directly rather
// than wrapping the call chain — the executor already owns the
// attempt loop (internal/executor/executor.go), so there is nothing
// for a request/response middleware to interpose on without duplicating
// that loop.
func AttachRetry(exec *executor.HTTPExecutor, opts executor.RetryOptions) {
	exec.Retry = opts
}
