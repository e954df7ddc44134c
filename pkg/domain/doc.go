/*
Package domain contains the core vocabulary of the mutagraph generator.

It defines the value handles used to talk about a typed graph (schema types and
the instances typed by them) and the error taxonomy that separates the expected
rejections of random exploration from real failures. This package is kept pure
and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Kind: The schema family of a type (entity, relation, resource, role, rule).
  - Type: A handle on an ontology element (a named, typed schema node).
  - Thing: A handle on an instance typed by exactly one Type.
  - GraphError: A classified failure; its ErrorKind decides whether a mutation is retried.
*/
package domain
