/*
Package observability exposes Prometheus metrics for graph generation.

Metrics implements both the mutation observer, which sees every applied and
rejected attempt, and the generation-level callbacks of the generator. Register
it on a dedicated registry in tests and on the default one in binaries.
*/
package observability
