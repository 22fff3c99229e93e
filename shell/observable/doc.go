// Package observable decorates command and query handlers with metrics and logging.
//
// The wrapped handlers stay free of observability concerns. A wrapper measures each call,
// classifies its outcome with shell.StatusOf and records it under the operation type of the
// command or query.
package observable
