package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
)

// Graph implements ports.Graph over an in-memory keyspace.
// Every call validates completely before it changes anything, so a rejected
// call leaves the keyspace untouched.
type Graph struct {
	ks           *keyspace
	writable     bool
	closed       bool
	showImplicit bool
}

var _ ports.Graph = (*Graph)(nil)

func (g *Graph) checkOpen(op string) error {
	if g.closed {
		return domain.Fatal(op, domain.ErrGraphClosed)
	}
	return nil
}

func (g *Graph) checkWrite(op string) error {
	if err := g.checkOpen(op); err != nil {
		return err
	}
	if !g.writable {
		return domain.Fatal(op, domain.ErrReadOnly)
	}
	return nil
}

// Keyspace returns the name of the keyspace the handle is bound to.
func (g *Graph) Keyspace() string {
	return g.ks.name
}

func (g *Graph) PutEntityType(label domain.Label, super domain.Type) (domain.Type, error) {
	return g.putType("putEntityType", domain.KindEntity, label, "", super)
}

func (g *Graph) PutResourceType(label domain.Label, dataType domain.DataType, super domain.Type) (domain.Type, error) {
	return g.putType("putResourceType", domain.KindResource, label, dataType, super)
}

func (g *Graph) PutRole(label domain.Label, super domain.Type) (domain.Type, error) {
	return g.putType("putRole", domain.KindRole, label, "", super)
}

func (g *Graph) PutRelationType(label domain.Label, super domain.Type) (domain.Type, error) {
	return g.putType("putRelationType", domain.KindRelation, label, "", super)
}

func (g *Graph) putType(op string, kind domain.Kind, label domain.Label, dataType domain.DataType, super domain.Type) (domain.Type, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return domain.Type{}, err
	}
	sup, err := g.ks.lookupType(op, super)
	if err != nil {
		return domain.Type{}, err
	}
	if sup.typ.Kind != kind {
		return domain.Type{}, domain.Fatal(op, fmt.Errorf("supertype %s is a %s: %w", sup.typ.Label, sup.typ.Kind, domain.ErrKindMismatch))
	}

	if id, ok := g.ks.labels[label]; ok {
		existing := g.ks.types[id]
		if existing.typ.Kind != kind {
			return domain.Type{}, domain.Invalid(op, fmt.Errorf("%q is a %s: %w", label, existing.typ.Kind, domain.ErrLabelTaken))
		}
		if kind == domain.KindResource && existing.dataType != dataType {
			return domain.Type{}, domain.Invalid(op, domain.ErrDataType)
		}
		if err := g.ks.checkSuper(op, existing, sup); err != nil {
			return domain.Type{}, err
		}
		existing.super = sup.typ.ID
		return existing.typ, nil
	}

	if kind == domain.KindResource && !sup.builtIn && sup.dataType != dataType {
		return domain.Type{}, domain.Invalid(op, domain.ErrDataType)
	}
	e := g.ks.newElement(label, kind, sup.typ.ID)
	e.dataType = dataType
	return e.typ, nil
}

func (g *Graph) SetSuper(sub, super domain.Type) error {
	const op = "sup"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	s, err := g.ks.lookupType(op, sub)
	if err != nil {
		return err
	}
	p, err := g.ks.lookupType(op, super)
	if err != nil {
		return err
	}
	if err := g.ks.checkSuper(op, s, p); err != nil {
		return err
	}
	s.super = p.typ.ID
	return nil
}

func (g *Graph) Plays(t, role domain.Type) error {
	const op = "plays"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return err
	}
	r, err := g.ks.lookupType(op, role)
	if err != nil {
		return err
	}
	if e.typ.IsRole() || !r.typ.IsRole() {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if e.typ.Kind == domain.KindRule {
		return domain.Unsupported(op)
	}
	if e.builtIn {
		return domain.Invalid(op, domain.ErrMetaImmutable)
	}
	e.plays[r.typ.ID] = true
	return nil
}

func (g *Graph) Resource(t, resourceType domain.Type) error {
	return g.own("resource", t, resourceType, false)
}

func (g *Graph) Key(t, resourceType domain.Type) error {
	return g.own("key", t, resourceType, true)
}

func (g *Graph) own(op string, t, resourceType domain.Type, key bool) error {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return err
	}
	r, err := g.ks.lookupType(op, resourceType)
	if err != nil {
		return err
	}
	if e.typ.IsRole() || r.typ.Kind != domain.KindResource {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if e.typ.Kind == domain.KindRule {
		return domain.Unsupported(op)
	}
	if e.builtIn || r.builtIn {
		return domain.Invalid(op, domain.ErrMetaImmutable)
	}
	if (key && e.owns[r.typ.ID]) || (!key && e.keys[r.typ.ID]) {
		return domain.Invalid(op, domain.ErrKeyConflict)
	}

	relLabel, ownerLabel, valueLabel := implicitLabels(r.typ.Label, key)
	for _, check := range []struct {
		label domain.Label
		kind  domain.Kind
	}{
		{relLabel, domain.KindRelation},
		{ownerLabel, domain.KindRole},
		{valueLabel, domain.KindRole},
	} {
		if err := g.ks.checkImplicit(op, check.label, check.kind); err != nil {
			return err
		}
	}

	rel := g.ks.putImplicit(relLabel, domain.KindRelation)
	owner := g.ks.putImplicit(ownerLabel, domain.KindRole)
	value := g.ks.putImplicit(valueLabel, domain.KindRole)
	rel.relates[owner.typ.ID] = true
	rel.relates[value.typ.ID] = true
	e.plays[owner.typ.ID] = true
	r.plays[value.typ.ID] = true

	if key {
		e.keys[r.typ.ID] = true
	} else {
		e.owns[r.typ.ID] = true
	}
	return nil
}

func (g *Graph) SetAbstract(t domain.Type, abstract bool) error {
	const op = "setAbstract"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return err
	}
	if e.typ.IsRole() {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if e.builtIn {
		return domain.Invalid(op, domain.ErrMetaImmutable)
	}
	if abstract && g.ks.hasDirectInstances(e) {
		return domain.Invalid(op, domain.ErrHasInstances)
	}
	e.abstract = abstract
	return nil
}

func (g *Graph) Relates(relationType, role domain.Type) error {
	const op = "relates"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	rel, err := g.ks.lookupType(op, relationType)
	if err != nil {
		return err
	}
	r, err := g.ks.lookupType(op, role)
	if err != nil {
		return err
	}
	if rel.typ.Kind != domain.KindRelation || !r.typ.IsRole() {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if rel.builtIn {
		return domain.Invalid(op, domain.ErrMetaImmutable)
	}
	rel.relates[r.typ.ID] = true
	return nil
}

func (g *Graph) Scope(t domain.Type, thing domain.Thing) error {
	const op = "scope"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return err
	}
	in, err := g.ks.lookupThing(op, thing)
	if err != nil {
		return err
	}
	if e.typ.IsRole() {
		return domain.Unsupported(op)
	}
	e.scopes[in.thing.ID] = true
	return nil
}

func (g *Graph) AddEntity(entityType domain.Type) (domain.Thing, error) {
	return g.addThing("addEntity", domain.KindEntity, entityType)
}

func (g *Graph) AddRelation(relationType domain.Type) (domain.Thing, error) {
	return g.addThing("addRelation", domain.KindRelation, relationType)
}

func (g *Graph) addThing(op string, kind domain.Kind, t domain.Type) (domain.Thing, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return domain.Thing{}, err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return domain.Thing{}, err
	}
	if e.typ.Kind != kind {
		return domain.Thing{}, domain.Fatal(op, domain.ErrKindMismatch)
	}
	if e.builtIn || e.abstract {
		return domain.Thing{}, domain.Invalid(op, domain.ErrAbstract)
	}
	return g.ks.newInstance(e).thing, nil
}

func (g *Graph) PutResource(resourceType domain.Type, value any) (domain.Thing, error) {
	const op = "putResource"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return domain.Thing{}, err
	}
	e, err := g.ks.lookupType(op, resourceType)
	if err != nil {
		return domain.Thing{}, err
	}
	if e.typ.Kind != domain.KindResource {
		return domain.Thing{}, domain.Fatal(op, domain.ErrKindMismatch)
	}
	if e.builtIn || e.abstract {
		return domain.Thing{}, domain.Invalid(op, domain.ErrAbstract)
	}
	if !e.dataType.Accepts(value) {
		return domain.Thing{}, domain.Invalid(op, fmt.Errorf("%v is not a %s: %w", value, e.dataType, domain.ErrDataType))
	}
	for _, in := range g.ks.things {
		if in.thing.Type.ID == e.typ.ID && in.value == value {
			return in.thing, nil
		}
	}
	in := g.ks.newInstance(e)
	in.value = value
	return in.thing, nil
}

func (g *Graph) AttachResource(thing, resource domain.Thing) error {
	const op = "resource"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	owner, err := g.ks.lookupThing(op, thing)
	if err != nil {
		return err
	}
	res, err := g.ks.lookupThing(op, resource)
	if err != nil {
		return err
	}
	if res.thing.Type.Kind != domain.KindResource {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if owner == res {
		return domain.Unsupported(op)
	}
	owner.resources[res.thing.ID] = true
	return nil
}

func (g *Graph) AddRolePlayer(relation domain.Thing, role domain.Type, player domain.Thing) error {
	const op = "addRolePlayer"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite(op); err != nil {
		return err
	}
	rel, err := g.ks.lookupThing(op, relation)
	if err != nil {
		return err
	}
	r, err := g.ks.lookupType(op, role)
	if err != nil {
		return err
	}
	p, err := g.ks.lookupThing(op, player)
	if err != nil {
		return err
	}
	if rel.thing.Type.Kind != domain.KindRelation || !r.typ.IsRole() {
		return domain.Fatal(op, domain.ErrKindMismatch)
	}
	if !g.ks.relatesRole(g.ks.types[rel.thing.Type.ID], r.typ.ID) {
		return domain.Invalid(op, domain.ErrRoleNotRelated)
	}
	players, ok := rel.players[r.typ.ID]
	if !ok {
		players = make(map[domain.ConceptID]bool)
		rel.players[r.typ.ID] = players
	}
	players[p.thing.ID] = true
	return nil
}

func (g *Graph) ShowImplicitConcepts(show bool) error {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen("showImplicitConcepts"); err != nil {
		return err
	}
	g.showImplicit = show
	return nil
}

func (g *Graph) ImplicitConceptsVisible() bool {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()
	return g.showImplicit
}

func (g *Graph) MetaType(kind domain.Kind) (domain.Type, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen("metaType"); err != nil {
		return domain.Type{}, err
	}
	id, ok := g.ks.meta[kind]
	if !ok {
		return domain.Type{}, domain.Fatal("metaType", fmt.Errorf("%s: %w", kind, domain.ErrNotFound))
	}
	return g.ks.types[id].typ, nil
}

func (g *Graph) Subs(t domain.Type) ([]domain.Type, error) {
	const op = "subs"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen(op); err != nil {
		return nil, err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return nil, err
	}
	subs := g.ks.subs(e, g.showImplicit)
	out := make([]domain.Type, len(subs))
	for i, s := range subs {
		out[i] = s.typ
	}
	return out, nil
}

func (g *Graph) Instances(t domain.Type) ([]domain.Thing, error) {
	const op = "instances"
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen(op); err != nil {
		return nil, err
	}
	e, err := g.ks.lookupType(op, t)
	if err != nil {
		return nil, err
	}
	types := make(map[domain.ConceptID]bool)
	for _, s := range g.ks.subs(e, g.showImplicit) {
		types[s.typ.ID] = true
	}

	found := make([]*instance, 0)
	for _, in := range g.ks.things {
		if types[in.thing.Type.ID] {
			found = append(found, in)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]domain.Thing, len(found))
	for i, in := range found {
		out[i] = in.thing
	}
	return out, nil
}

func (g *Graph) IsAbstract(t domain.Type) (bool, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen("isAbstract"); err != nil {
		return false, err
	}
	e, err := g.ks.lookupType("isAbstract", t)
	if err != nil {
		return false, err
	}
	return e.abstract, nil
}

func (g *Graph) DataType(resourceType domain.Type) (domain.DataType, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen("dataType"); err != nil {
		return "", err
	}
	e, err := g.ks.lookupType("dataType", resourceType)
	if err != nil {
		return "", err
	}
	if e.typ.Kind != domain.KindResource {
		return "", domain.Fatal("dataType", domain.ErrKindMismatch)
	}
	return e.dataType, nil
}

func (g *Graph) Super(t domain.Type) (domain.Type, bool, error) {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkOpen("super"); err != nil {
		return domain.Type{}, false, err
	}
	e, err := g.ks.lookupType("super", t)
	if err != nil {
		return domain.Type{}, false, err
	}
	if e.super == "" {
		return domain.Type{}, false, nil
	}
	return g.ks.types[e.super].typ, true, nil
}

// Delete empties the keyspace back to its built-in types and closes the handle.
func (g *Graph) Delete() error {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()

	if err := g.checkWrite("delete"); err != nil {
		return err
	}
	g.ks.reset()
	g.closed = true
	return nil
}

func (g *Graph) Close() error {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()
	g.closed = true
	return nil
}

func (g *Graph) IsClosed() bool {
	g.ks.mu.Lock()
	defer g.ks.mu.Unlock()
	return g.closed
}
