// Package smoketests contains the smoke tests for the leave-management API and the
// supporting API they are written with.
//
// Harness infrastructure that does not depend on what is being tested, such as the test
// context and the outcome log, is in the lower-level framework package. Issuing requests
// is the job of the client package.
package smoketests
