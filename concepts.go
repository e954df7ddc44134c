package mutagraph

import (
	"errors"
	"fmt"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
)

// AllOntologyElementsFrom returns every ontology element of graph, implicit
// ones included. The graph's implicit visibility is the same after the call
// as before it.
func AllOntologyElementsFrom(graph ports.Graph) (types []domain.Type, err error) {
	err = withImplicitConcepts(graph, func() error {
		root, err := graph.MetaType(domain.KindConcept)
		if err != nil {
			return err
		}
		types, err = graph.Subs(root)
		return err
	})
	return types, err
}

// AllInstancesFrom returns every instance of graph, instances of implicit
// types included. Visibility is restored like in AllOntologyElementsFrom.
func AllInstancesFrom(graph ports.Graph) (things []domain.Thing, err error) {
	err = withImplicitConcepts(graph, func() error {
		root, err := graph.MetaType(domain.KindConcept)
		if err != nil {
			return err
		}
		things, err = graph.Instances(root)
		return err
	})
	return things, err
}

// AllConceptsFrom returns the ontology elements and the instances of graph.
func AllConceptsFrom(graph ports.Graph) ([]domain.Type, []domain.Thing, error) {
	types, err := AllOntologyElementsFrom(graph)
	if err != nil {
		return nil, nil, err
	}
	things, err := AllInstancesFrom(graph)
	if err != nil {
		return nil, nil, err
	}
	return types, things, nil
}

func withImplicitConcepts(graph ports.Graph, fn func() error) (err error) {
	prev := graph.ImplicitConceptsVisible()
	if err := graph.ShowImplicitConcepts(true); err != nil {
		return fmt.Errorf("show implicit concepts: %w", err)
	}
	defer func() {
		if restoreErr := graph.ShowImplicitConcepts(prev); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restore implicit concepts: %w", restoreErr))
		}
	}()
	return fn()
}
