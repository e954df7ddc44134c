// Package selector picks random existing elements and instances of a graph.
//
// Selection is read-only. An empty candidate set is reported as a retryable
// exhaustion error, which is the most common rejection early in a generation
// when the graph holds few or no instances.
package selector

import (
	"fmt"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/gen"
	"github.com/aretw0/mutagraph/pkg/ports"
)

// Selector draws operands for mutations from the current graph.
type Selector struct {
	graph ports.Graph
	src   gen.Source
}

// New returns a selector over graph drawing from src.
func New(graph ports.Graph, src gen.Source) *Selector {
	return &Selector{graph: graph, src: src}
}

// ChooseOrThrow returns a uniformly random candidate, or an exhaustion error
// naming what was being chosen when there is none.
func ChooseOrThrow[T any](src gen.Source, what string, candidates []T) (T, error) {
	if len(candidates) == 0 {
		var zero T
		return zero, domain.Exhausted(what)
	}
	return gen.Choose(src, candidates), nil
}

// SubtypeOf returns a random type among the meta type of kind and all its subtypes.
func (s *Selector) SubtypeOf(kind domain.Kind) (domain.Type, error) {
	meta, err := s.graph.MetaType(kind)
	if err != nil {
		return domain.Type{}, err
	}
	subs, err := s.graph.Subs(meta)
	if err != nil {
		return domain.Type{}, fmt.Errorf("subtypes of %s: %w", kind, err)
	}
	return ChooseOrThrow(s.src, kind.String()+" type", subs)
}

func (s *Selector) EntityType() (domain.Type, error)   { return s.SubtypeOf(domain.KindEntity) }
func (s *Selector) RelationType() (domain.Type, error) { return s.SubtypeOf(domain.KindRelation) }
func (s *Selector) ResourceType() (domain.Type, error) { return s.SubtypeOf(domain.KindResource) }
func (s *Selector) Role() (domain.Type, error)         { return s.SubtypeOf(domain.KindRole) }
func (s *Selector) RuleType() (domain.Type, error)     { return s.SubtypeOf(domain.KindRule) }

// OntologyConcept returns any ontology element, roles included.
func (s *Selector) OntologyConcept() (domain.Type, error) {
	return s.SubtypeOf(domain.KindConcept)
}

// Type returns any ontology element that is not a role.
func (s *Selector) Type() (domain.Type, error) {
	all, err := s.allTypes()
	if err != nil {
		return domain.Type{}, err
	}
	return ChooseOrThrow(s.src, "type", all)
}

func (s *Selector) allTypes() ([]domain.Type, error) {
	root, err := s.graph.MetaType(domain.KindConcept)
	if err != nil {
		return nil, err
	}
	subs, err := s.graph.Subs(root)
	if err != nil {
		return nil, err
	}
	types := make([]domain.Type, 0, len(subs))
	for _, t := range subs {
		if !t.IsRole() {
			types = append(types, t)
		}
	}
	return types, nil
}

// InstanceOf returns a random instance of the meta type of kind or any of its subtypes.
func (s *Selector) InstanceOf(kind domain.Kind) (domain.Thing, error) {
	meta, err := s.graph.MetaType(kind)
	if err != nil {
		return domain.Thing{}, err
	}
	things, err := s.graph.Instances(meta)
	if err != nil {
		return domain.Thing{}, fmt.Errorf("instances of %s: %w", kind, err)
	}
	return ChooseOrThrow(s.src, kind.String()+" instance", things)
}

// Instance returns any instance in the graph.
func (s *Selector) Instance() (domain.Thing, error) {
	return s.InstanceOf(domain.KindConcept)
}

func (s *Selector) Relation() (domain.Thing, error) { return s.InstanceOf(domain.KindRelation) }
func (s *Selector) Resource() (domain.Thing, error) { return s.InstanceOf(domain.KindResource) }
func (s *Selector) Rule() (domain.Thing, error)     { return s.InstanceOf(domain.KindRule) }
