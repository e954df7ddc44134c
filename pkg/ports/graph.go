package ports

import "github.com/aretw0/mutagraph/pkg/domain"

// TxType selects the mode a transaction is opened in.
type TxType int

const (
	TxRead TxType = iota
	TxWrite
)

// Factory provisions sessions on named keyspaces.
type Factory interface {
	// Session returns the session for the keyspace, creating the keyspace if needed.
	Session(keyspace string) (Session, error)
}

// Session opens transactions on a single keyspace.
type Session interface {
	Keyspace() string
	Open(tx TxType) (Graph, error)
}

// Graph is a handle on the mutable state of one keyspace.
//
// Implementations report rejections as *domain.GraphError so callers can tell
// expected validation failures (retryable) from defects (fatal). A rejected call
// must leave the graph exactly as it was before the call.
type Graph interface {
	Keyspace() string

	// PutEntityType returns the entity type with the label, creating it if
	// absent, and makes super its direct supertype.
	PutEntityType(label domain.Label, super domain.Type) (domain.Type, error)
	// PutResourceType is PutEntityType for resource types; an existing type
	// must already carry the data type.
	PutResourceType(label domain.Label, dataType domain.DataType, super domain.Type) (domain.Type, error)
	PutRole(label domain.Label, super domain.Type) (domain.Type, error)
	PutRelationType(label domain.Label, super domain.Type) (domain.Type, error)

	// SetSuper makes super the direct supertype of sub.
	SetSuper(sub, super domain.Type) error
	Plays(t, role domain.Type) error
	// Resource lets instances of t own resources of resourceType.
	Resource(t, resourceType domain.Type) error
	// Key is Resource with the additional constraint that the resource is a key.
	Key(t, resourceType domain.Type) error
	SetAbstract(t domain.Type, abstract bool) error
	Relates(relationType, role domain.Type) error
	// Scope attaches a scoping relationship between an ontology element and an instance.
	Scope(t domain.Type, thing domain.Thing) error

	AddEntity(entityType domain.Type) (domain.Thing, error)
	AddRelation(relationType domain.Type) (domain.Thing, error)
	// PutResource returns the resource of resourceType holding value, creating it if absent.
	PutResource(resourceType domain.Type, value any) (domain.Thing, error)
	// AttachResource links thing to resource.
	AttachResource(thing, resource domain.Thing) error
	AddRolePlayer(relation domain.Thing, role domain.Type, player domain.Thing) error

	// ShowImplicitConcepts toggles whether implicit (system-generated) concepts
	// are listed by Subs and Instances.
	ShowImplicitConcepts(show bool) error
	ImplicitConceptsVisible() bool

	// MetaType returns the built-in root type of a family.
	MetaType(kind domain.Kind) (domain.Type, error)
	// Subs returns t and all its direct and transitive subtypes.
	Subs(t domain.Type) ([]domain.Type, error)
	// Instances returns the instances of t and of all its subtypes.
	Instances(t domain.Type) ([]domain.Thing, error)
	IsAbstract(t domain.Type) (bool, error)
	// DataType returns the data type of a resource type; it is empty for the meta resource type.
	DataType(resourceType domain.Type) (domain.DataType, error)
	// Super returns the direct supertype of t; ok is false for the universal root.
	Super(t domain.Type) (super domain.Type, ok bool, err error)

	// Delete removes every non built-in element and closes the handle.
	Delete() error
	Close() error
	IsClosed() bool
}
