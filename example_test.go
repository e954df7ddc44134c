package mutagraph_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/pkg/mutation"
)

// ExampleGenerator_Generate builds a small graph from a fixed seed and inspects it.
func ExampleGenerator_Generate() {
	gen := mutagraph.New(
		mutagraph.WithSeed(7),
		mutagraph.WithOpen(true),
		mutagraph.WithOperators(mutation.NewEntityType),
	)

	res, err := gen.Generate(context.Background(), 3)
	if err != nil {
		log.Fatal(err)
	}
	defer res.Graph.Close()

	lines := strings.Split(strings.TrimSpace(res.Trace), "\n")
	fmt.Println(lines[0])
	fmt.Println(len(lines) - 1)

	types, err := mutagraph.AllOntologyElementsFrom(res.Graph)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(types) > 8)

	// Output:
	// size: 3
	// 3
	// true
}
