// Package mutation holds the catalog of random graph mutations and the
// executor that applies them until one succeeds.
//
// Each Operator selects its operands through a selector, performs exactly one
// change through the graph API and records exactly one trace statement. The
// executor is the only place where rejections are classified and retried.
package mutation

import (
	"fmt"

	"github.com/aretw0/mutagraph/pkg/domain"
)

// Operator identifies one kind of random graph mutation.
type Operator int

const (
	NewEntityType Operator = iota
	NewResourceType
	NewRole
	NewRelationType
	ShowImplicitConcepts
	Plays
	OwnResource
	OwnKey
	SetAbstract
	SetEntitySuper
	AddEntity
	SetRoleSuper
	SetRelationSuper
	AddRelation
	Relates
	SetResourceSuper
	PutResource
	SetRuleSuper
	AttachResource
	Scope
	AddRolePlayer

	numOperators
)

var operatorNames = [numOperators]string{
	NewEntityType:        "new_entity_type",
	NewResourceType:      "new_resource_type",
	NewRole:              "new_role",
	NewRelationType:      "new_relation_type",
	ShowImplicitConcepts: "show_implicit_concepts",
	Plays:                "plays",
	OwnResource:          "own_resource",
	OwnKey:               "own_key",
	SetAbstract:          "set_abstract",
	SetEntitySuper:       "set_entity_super",
	AddEntity:            "add_entity",
	SetRoleSuper:         "set_role_super",
	SetRelationSuper:     "set_relation_super",
	AddRelation:          "add_relation",
	Relates:              "relates",
	SetResourceSuper:     "set_resource_super",
	PutResource:          "put_resource",
	SetRuleSuper:         "set_rule_super",
	AttachResource:       "attach_resource",
	Scope:                "scope",
	AddRolePlayer:        "add_role_player",
}

func (o Operator) String() string {
	if o < 0 || o >= numOperators {
		return fmt.Sprintf("operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Operators returns the full catalog in declaration order.
func Operators() []Operator {
	ops := make([]Operator, numOperators)
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// ParseOperator resolves an operator by its name.
func ParseOperator(name string) (Operator, error) {
	for i, n := range operatorNames {
		if n == name {
			return Operator(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, name)
}
