/*
Package mutagraph generates random, valid graph states to be used as inputs of
property-based tests against a typed graph database.

A graph state is an ontology (entity, relation, role, resource and rule types
arranged in supertype hierarchies) together with instances of those types. A
Generator builds one by starting from an empty keyspace and applying a fixed
number of random mutations. Mutations the graph rejects as an expected outcome
of random exploration are retried; anything else aborts the generation.

Every successful mutation is written to a trace, a replayable, human-readable
summary of how the graph was built:

	size: 3
	foo_bar = graph.putEntityType("foo-bar", entity);
	foo_barV10 = foo_bar.addEntity();
	graph.showImplicitConcepts(true);

# Usage

	gen := mutagraph.New(mutagraph.WithSeed(42), mutagraph.WithOpen(true))

	res, err := gen.Generate(ctx, 20)
	if err != nil {
		return err
	}
	defer res.Graph.Close()

	types, err := mutagraph.AllOntologyElementsFrom(res.Graph)

The same seed reproduces the same keyspace and the same mutations. A
generation of size k under a seed is a prefix of any larger generation under
that seed, which is what pkg/property relies on to shrink failing inputs.

# Architecture

The graph itself is reached through the ports.Graph interface. pkg/adapters/memory
provides an in-memory implementation; pkg/mutation holds the operator catalog
and the retry loop; pkg/trace records traces and pkg/report emits them when a
property fails.
*/
package mutagraph

// Version of the module.
const Version = "0.4.0"
