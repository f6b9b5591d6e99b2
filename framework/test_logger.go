package framework

// TestLogger receives progress notifications while a test run is executing.
type TestLogger interface {
	TestStarted(id TestID)
	OutcomeRecorded(id TestID, outcome TestOutcome)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) OutcomeRecorded(TestID, TestOutcome)       {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
