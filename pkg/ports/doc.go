/*
Package ports defines the driven ports (interfaces) of the mutagraph generator.

These interfaces decouple the generator from the graph engine it exercises and
from the places generation traces are archived.

# Key Interfaces

  - Factory / Session: Provision graphs keyed by keyspace and open transactions on them.
  - Graph: The mutable graph handle (schema and instance API) a generation mutates.
  - TraceStore: Archives the replayable trace of a generation for later diagnosis.
*/
package ports
