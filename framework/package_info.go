// Package framework contains the low-level implementation of the smoke-test harness
// infrastructure, independent of which service is being tested.
//
// The general model is:
//
// 1. A TestRun is the ordered, append-only log of every TestOutcome recorded during one
// invocation of the harness. It is created by Run and is never shared between invocations.
//
// 2. A Context is similar to Go's *testing.T. Each test case runs in its own Context,
// which records outcomes into the TestRun. A panic or FailNow inside a case ends that case
// only; the remaining cases still run.
//
// 3. A TestLogger is notified as cases start, record outcomes, and finish, so that progress
// can be printed while the run is in progress.
//
// The domain-specific code that knows what is being tested is responsible for issuing the
// requests and deciding what to record.
package framework
