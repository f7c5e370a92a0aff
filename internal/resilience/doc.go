// Package resilience groups the fault tolerance helpers used around model
// and entity recognition calls.
//
// The subpackages provide:
//   - Circuit breakers for external APIs (Claude, OpenAI, Gemini, NER sidecar)
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ClaudeAPIConfig())
//	err := retry.WithBackoff(ctx, retry.AIAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return callModel(ctx)
//	    })
//	    return err
//	})
package resilience
