package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/mutagraph/pkg/domain"
)

// element is the stored form of an ontology element.
type element struct {
	seq      int
	typ      domain.Type
	super    domain.ConceptID // empty for the universal root
	builtIn  bool
	implicit bool
	abstract bool
	dataType domain.DataType

	plays   map[domain.ConceptID]bool
	owns    map[domain.ConceptID]bool
	keys    map[domain.ConceptID]bool
	relates map[domain.ConceptID]bool
	scopes  map[domain.ConceptID]bool
}

// instance is the stored form of a thing.
type instance struct {
	seq       int
	thing     domain.Thing
	value     any
	resources map[domain.ConceptID]bool
	players   map[domain.ConceptID]map[domain.ConceptID]bool // role -> players
}

// keyspace holds the contents shared by every transaction opened on it.
type keyspace struct {
	name string

	mu     sync.Mutex
	seq    int
	types  map[domain.ConceptID]*element
	labels map[domain.Label]domain.ConceptID
	things map[domain.ConceptID]*instance
	meta   map[domain.Kind]domain.ConceptID
}

func newKeyspace(name string) *keyspace {
	ks := &keyspace{name: name}
	ks.reset()
	return ks
}

// reset drops every element and instance and reseeds the built-in types.
// Identities restart too, so an emptied keyspace is indistinguishable from a new one.
func (ks *keyspace) reset() {
	ks.seq = 0
	ks.types = make(map[domain.ConceptID]*element)
	ks.labels = make(map[domain.Label]domain.ConceptID)
	ks.things = make(map[domain.ConceptID]*instance)
	ks.meta = make(map[domain.Kind]domain.ConceptID)

	root := ks.newElement(domain.KindConcept.MetaLabel(), domain.KindConcept, "")
	root.builtIn, root.abstract = true, true
	ks.meta[domain.KindConcept] = root.typ.ID

	for _, kind := range domain.Kinds()[1:] {
		e := ks.newElement(kind.MetaLabel(), kind, root.typ.ID)
		e.builtIn, e.abstract = true, true
		ks.meta[kind] = e.typ.ID
	}

	for _, label := range []domain.Label{"inference-rule", "constraint-rule"} {
		e := ks.newElement(label, domain.KindRule, ks.meta[domain.KindRule])
		e.builtIn = true
	}
}

func (ks *keyspace) nextID() (int, domain.ConceptID) {
	ks.seq++
	return ks.seq, domain.ConceptID(fmt.Sprintf("V%d", ks.seq))
}

func (ks *keyspace) newElement(label domain.Label, kind domain.Kind, super domain.ConceptID) *element {
	seq, id := ks.nextID()
	e := &element{
		seq:     seq,
		typ:     domain.Type{ID: id, Label: label, Kind: kind},
		super:   super,
		plays:   make(map[domain.ConceptID]bool),
		owns:    make(map[domain.ConceptID]bool),
		keys:    make(map[domain.ConceptID]bool),
		relates: make(map[domain.ConceptID]bool),
		scopes:  make(map[domain.ConceptID]bool),
	}
	ks.types[id] = e
	ks.labels[label] = id
	return e
}

func (ks *keyspace) newInstance(of *element) *instance {
	seq, id := ks.nextID()
	in := &instance{
		seq:       seq,
		thing:     domain.Thing{ID: id, Type: of.typ},
		resources: make(map[domain.ConceptID]bool),
		players:   make(map[domain.ConceptID]map[domain.ConceptID]bool),
	}
	ks.things[id] = in
	return in
}

// lookupType resolves a handle. Handles that this keyspace never issued are a
// caller defect, not a rejection.
func (ks *keyspace) lookupType(op string, t domain.Type) (*element, error) {
	e, ok := ks.types[t.ID]
	if !ok {
		return nil, domain.Fatal(op, fmt.Errorf("type %s (%s): %w", t.Label, t.ID, domain.ErrNotFound))
	}
	if e.typ.Kind != t.Kind {
		return nil, domain.Fatal(op, fmt.Errorf("type %s is a %s, not a %s: %w", t.Label, e.typ.Kind, t.Kind, domain.ErrKindMismatch))
	}
	return e, nil
}

func (ks *keyspace) lookupThing(op string, th domain.Thing) (*instance, error) {
	in, ok := ks.things[th.ID]
	if !ok {
		return nil, domain.Fatal(op, fmt.Errorf("thing %s: %w", th.ID, domain.ErrNotFound))
	}
	return in, nil
}

// isSubOf reports whether e is ancestor or one of its transitive subtypes.
func (ks *keyspace) isSubOf(e *element, ancestor domain.ConceptID) bool {
	for cur := e; cur != nil; cur = ks.types[cur.super] {
		if cur.typ.ID == ancestor {
			return true
		}
		if cur.super == "" {
			return false
		}
	}
	return false
}

// subs returns e and all its subtypes ordered by creation.
func (ks *keyspace) subs(e *element, showImplicit bool) []*element {
	out := make([]*element, 0)
	for _, cand := range ks.types {
		if cand.implicit && !showImplicit && cand != e {
			continue
		}
		if ks.isSubOf(cand, e.typ.ID) {
			out = append(out, cand)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// relatesRole reports whether the relation type or one of its supertypes relates the role.
func (ks *keyspace) relatesRole(rel *element, role domain.ConceptID) bool {
	for cur := rel; cur != nil; cur = ks.types[cur.super] {
		if cur.relates[role] {
			return true
		}
		if cur.super == "" {
			return false
		}
	}
	return false
}

func (ks *keyspace) hasDirectInstances(e *element) bool {
	for _, in := range ks.things {
		if in.thing.Type.ID == e.typ.ID {
			return true
		}
	}
	return false
}

// checkSuper validates making sup the direct supertype of sub.
func (ks *keyspace) checkSuper(op string, sub, sup *element) error {
	if sub.typ.Kind != sup.typ.Kind {
		return domain.Fatal(op, fmt.Errorf("%s %s under %s %s: %w",
			sub.typ.Kind, sub.typ.Label, sup.typ.Kind, sup.typ.Label, domain.ErrKindMismatch))
	}
	if sub.builtIn {
		return domain.Invalid(op, domain.ErrMetaImmutable)
	}
	if ks.isSubOf(sup, sub.typ.ID) {
		return domain.Invalid(op, domain.ErrCycle)
	}
	if sub.typ.Kind == domain.KindResource && !sup.builtIn && sup.dataType != sub.dataType {
		return domain.Invalid(op, domain.ErrDataType)
	}
	return nil
}

// implicitLabels returns the labels of the relation type and roles backing a
// resource ownership.
func implicitLabels(resource domain.Label, key bool) (rel, owner, value domain.Label) {
	prefix := "has-"
	if key {
		prefix = "key-"
	}
	rel = domain.Label(prefix + string(resource))
	return rel, rel + "-owner", rel + "-value"
}

// checkImplicit fails when label is held by an element that is not the
// implicit element of the expected kind.
func (ks *keyspace) checkImplicit(op string, label domain.Label, kind domain.Kind) error {
	id, ok := ks.labels[label]
	if !ok {
		return nil
	}
	if e := ks.types[id]; !e.implicit || e.typ.Kind != kind {
		return domain.Invalid(op, fmt.Errorf("implicit %s %q: %w", kind, label, domain.ErrLabelTaken))
	}
	return nil
}

func (ks *keyspace) putImplicit(label domain.Label, kind domain.Kind) *element {
	if id, ok := ks.labels[label]; ok {
		return ks.types[id]
	}
	e := ks.newElement(label, kind, ks.meta[kind])
	e.implicit = true
	return e
}
