package domain

import "fmt"

// Kind identifies the schema family an ontology element belongs to.
type Kind int

const (
	// KindConcept is the universal root every other family descends from.
	KindConcept Kind = iota
	KindEntity
	KindRelation
	KindResource
	KindRole
	KindRule
)

// Kinds lists every schema family, universal root first.
func Kinds() []Kind {
	return []Kind{KindConcept, KindEntity, KindRelation, KindResource, KindRole, KindRule}
}

// String returns the label of the family's meta type.
func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "concept"
	case KindEntity:
		return "entity"
	case KindRelation:
		return "relation"
	case KindResource:
		return "resource"
	case KindRole:
		return "role"
	case KindRule:
		return "rule"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MetaLabel returns the label of the built-in root type of the family.
func (k Kind) MetaLabel() Label {
	return Label(k.String())
}
