// Package client issues single HTTP requests against the service under test and returns
// everything needed to inspect the result: status, headers, raw body, and the body parsed
// as JSON when possible.
//
// HTTP error statuses are ordinary results. Only transport failures, such as a refused
// connection, a DNS failure, or a timeout, are returned as errors.
package client
