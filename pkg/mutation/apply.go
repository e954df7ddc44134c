package mutation

import (
	"fmt"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/gen"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/aretw0/mutagraph/pkg/selector"
	"github.com/aretw0/mutagraph/pkg/trace"
)

// Env is what an operator works against: the graph being generated, the
// random source, a selector over the graph and the trace of the generation.
type Env struct {
	Graph  ports.Graph
	Src    gen.Source
	Select *selector.Selector
	Trace  *trace.Recorder
}

// NewEnv wires a selector over graph using src.
func NewEnv(graph ports.Graph, src gen.Source, rec *trace.Recorder) *Env {
	return &Env{
		Graph:  graph,
		Src:    src,
		Select: selector.New(graph, src),
		Trace:  rec,
	}
}

// Apply performs op once. On success the graph holds one more change and the
// trace one more statement; on failure neither was touched.
func Apply(op Operator, env *Env) error {
	switch op {
	case NewEntityType:
		return newType(env, domain.KindEntity)
	case NewResourceType:
		return newType(env, domain.KindResource)
	case NewRole:
		return newType(env, domain.KindRole)
	case NewRelationType:
		return newType(env, domain.KindRelation)
	case ShowImplicitConcepts:
		return showImplicitConcepts(env)
	case Plays:
		return plays(env)
	case OwnResource:
		return own(env, false)
	case OwnKey:
		return own(env, true)
	case SetAbstract:
		return setAbstract(env)
	case SetEntitySuper:
		return reparent(env, domain.KindEntity)
	case SetRoleSuper:
		return reparent(env, domain.KindRole)
	case SetRelationSuper:
		return reparent(env, domain.KindRelation)
	case SetResourceSuper:
		return reparent(env, domain.KindResource)
	case SetRuleSuper:
		return reparent(env, domain.KindRule)
	case AddEntity:
		return addThing(env, domain.KindEntity)
	case AddRelation:
		return addThing(env, domain.KindRelation)
	case Relates:
		return relates(env)
	case PutResource:
		return putResource(env)
	case AttachResource:
		return attachResource(env)
	case Scope:
		return scope(env)
	case AddRolePlayer:
		return addRolePlayer(env)
	default:
		return domain.Fatal("apply", fmt.Errorf("%w: %s", domain.ErrUnknownOperator, op))
	}
}

func newType(env *Env, kind domain.Kind) error {
	label := gen.TypeLabel(env.Src)

	var dataType domain.DataType
	if kind == domain.KindResource {
		dataType = gen.DataType(env.Src)
	}

	super, err := env.Select.SubtypeOf(kind)
	if err != nil {
		return err
	}

	var (
		created domain.Type
		method  string
	)
	switch kind {
	case domain.KindEntity:
		method = "putEntityType"
		created, err = env.Graph.PutEntityType(label, super)
	case domain.KindResource:
		method = "putResourceType"
		created, err = env.Graph.PutResourceType(label, dataType, super)
	case domain.KindRole:
		method = "putRole"
		created, err = env.Graph.PutRole(label, super)
	case domain.KindRelation:
		method = "putRelationType"
		created, err = env.Graph.PutRelationType(label, super)
	default:
		return domain.Fatal("new type", fmt.Errorf("cannot create %s types: %w", kind, domain.ErrUnsupported))
	}
	if err != nil {
		return err
	}

	if kind == domain.KindResource {
		env.Trace.Assign(created, trace.Graph, method, label, dataType, super)
	} else {
		env.Trace.Assign(created, trace.Graph, method, label, super)
	}
	return nil
}

func showImplicitConcepts(env *Env) error {
	show := env.Src.Bool()
	if err := env.Graph.ShowImplicitConcepts(show); err != nil {
		return err
	}
	env.Trace.Summary(trace.Graph, "showImplicitConcepts", trace.Value(show))
	return nil
}

func plays(env *Env) error {
	t, err := env.Select.Type()
	if err != nil {
		return err
	}
	role, err := env.Select.Role()
	if err != nil {
		return err
	}
	if err := env.Graph.Plays(t, role); err != nil {
		return err
	}
	env.Trace.Summary(t, "plays", role)
	return nil
}

func own(env *Env, key bool) error {
	t, err := env.Select.Type()
	if err != nil {
		return err
	}
	resourceType, err := env.Select.ResourceType()
	if err != nil {
		return err
	}

	method := "resource"
	if key {
		method = "key"
		err = env.Graph.Key(t, resourceType)
	} else {
		err = env.Graph.Resource(t, resourceType)
	}
	if err != nil {
		return err
	}
	env.Trace.Summary(t, method, resourceType)
	return nil
}

func setAbstract(env *Env) error {
	t, err := env.Select.Type()
	if err != nil {
		return err
	}
	abstract := env.Src.Bool()
	if err := env.Graph.SetAbstract(t, abstract); err != nil {
		return err
	}
	env.Trace.Summary(t, "setAbstract", trace.Value(abstract))
	return nil
}

// reparent picks two types of the same family and makes the second the
// supertype of the first.
func reparent(env *Env, kind domain.Kind) error {
	sub, err := env.Select.SubtypeOf(kind)
	if err != nil {
		return err
	}
	super, err := env.Select.SubtypeOf(kind)
	if err != nil {
		return err
	}
	if err := env.Graph.SetSuper(sub, super); err != nil {
		return err
	}
	env.Trace.Summary(sub, "sup", super)
	return nil
}

func addThing(env *Env, kind domain.Kind) error {
	t, err := env.Select.SubtypeOf(kind)
	if err != nil {
		return err
	}

	var (
		thing  domain.Thing
		method string
	)
	switch kind {
	case domain.KindEntity:
		method = "addEntity"
		thing, err = env.Graph.AddEntity(t)
	case domain.KindRelation:
		method = "addRelation"
		thing, err = env.Graph.AddRelation(t)
	default:
		return domain.Fatal("add thing", fmt.Errorf("cannot instantiate %s types: %w", kind, domain.ErrUnsupported))
	}
	if err != nil {
		return err
	}
	env.Trace.Assign(thing, t, method)
	return nil
}

func relates(env *Env) error {
	relationType, err := env.Select.RelationType()
	if err != nil {
		return err
	}
	role, err := env.Select.Role()
	if err != nil {
		return err
	}
	if err := env.Graph.Relates(relationType, role); err != nil {
		return err
	}
	env.Trace.Summary(relationType, "relates", role)
	return nil
}

func putResource(env *Env) error {
	resourceType, err := env.Select.ResourceType()
	if err != nil {
		return err
	}
	dataType, err := env.Graph.DataType(resourceType)
	if err != nil {
		return err
	}
	if dataType == "" {
		// The meta resource type carries no data type; any value is drawn and
		// the graph rejects the instantiation.
		dataType = gen.DataType(env.Src)
	}
	value := gen.Value(env.Src, dataType)

	resource, err := env.Graph.PutResource(resourceType, value)
	if err != nil {
		return err
	}
	env.Trace.Assign(resource, resourceType, "putResource", trace.Literal(dataType.Format(value)))
	return nil
}

func attachResource(env *Env) error {
	thing, err := env.Select.Instance()
	if err != nil {
		return err
	}
	resource, err := env.Select.Resource()
	if err != nil {
		return err
	}
	if err := env.Graph.AttachResource(thing, resource); err != nil {
		return err
	}
	env.Trace.Summary(thing, "resource", resource)
	return nil
}

func scope(env *Env) error {
	concept, err := env.Select.OntologyConcept()
	if err != nil {
		return err
	}
	thing, err := env.Select.Instance()
	if err != nil {
		return err
	}
	if err := env.Graph.Scope(concept, thing); err != nil {
		return err
	}
	env.Trace.Summary(concept, "scope", thing)
	return nil
}

func addRolePlayer(env *Env) error {
	relation, err := env.Select.Relation()
	if err != nil {
		return err
	}
	role, err := env.Select.Role()
	if err != nil {
		return err
	}
	player, err := env.Select.Instance()
	if err != nil {
		return err
	}
	if err := env.Graph.AddRolePlayer(relation, role, player); err != nil {
		return err
	}
	env.Trace.Summary(relation, "addRolePlayer", role, player)
	return nil
}
