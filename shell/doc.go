// Package shell holds the infrastructure shared by the feature slices: the contracts of command
// and query handlers, retry with exponential backoff for lost compare-and-set races, and the
// handler-level observability helpers used by the observable wrappers.
//
// The features/ packages contain pure decision logic plus a handler each; everything that talks
// to metrics, logs or retries lives here.
package shell
