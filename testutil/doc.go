// Package testutil groups the test support packages:
//
//   - memstore: in-memory store used by the feature and HTTP tests
//   - helper: fixtures and the fake clock
//   - helper/postgreswrapper: PostgreSQL-backed stores for the store tests, selected by ADAPTER_TYPE
//   - observability/testdoubles: metrics and log spies
package testutil
