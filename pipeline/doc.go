// Package pipeline executes logical storage operations over HTTP. An
// Executor takes an Operation, resolves its options, builds and signs a
// request, sends it, and retries classified failures across the
// account's endpoints until the operation succeeds, exhausts its
// attempts, or is cancelled.
//
// A minimal round trip:
//
//	exec, err := pipeline.NewExecutor(pipeline.Config{
//		Uri:        acct.TableUri(),
//		Credential: acct.Credential(),
//	})
//	if err != nil {
//		return err
//	}
//	result, err := exec.Do(ctx, &pipeline.Operation{
//		Method: http.MethodGet,
//		Path:   "/tables",
//	}, nil, nil)
//
// Callers needing per-attempt visibility pass an OperationContext whose
// PreSend and PostReceive hooks fire around every attempt, and whose
// attempt log survives into the error report when all attempts fail.
package pipeline
