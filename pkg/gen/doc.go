/*
Package gen provides the random source and the value generators the mutation
catalog draws from: keyspace names, type labels, resource data types and
resource values.

Every generator consumes randomness only through a Source, so a generation
seeded with the same value draws the same sequence of names and values.
*/
package gen
