package rules

import (
	"sortlint/internal/facts"
	"sortlint/internal/source"
)

// RuleSet selects which consistency rules run.
type RuleSet uint8

const (
	// RuleSetBaseline checks marker agreement only (rules 1-3).
	RuleSetBaseline RuleSet = iota
	// RuleSetExtended additionally checks sortable property types against
	// the whitelist (rule 4). Rules 1-3 behave identically in both sets.
	RuleSetExtended
)

func (rs RuleSet) String() string {
	if rs == RuleSetExtended {
		return "extended"
	}
	return "baseline"
}

// Evaluator runs the sort-marker rules over one immutable fact set. It
// holds no per-class state: EvaluateClass is a pure function of the facts,
// safe to call concurrently for sibling classes.
type Evaluator struct {
	set       *facts.Set
	rules     RuleSet
	whitelist Whitelist
}

func NewEvaluator(set *facts.Set, rules RuleSet, whitelist Whitelist) *Evaluator {
	return &Evaluator{set: set, rules: rules, whitelist: whitelist}
}

// sortableProp pairs a sortable property with the chain class declaring it.
type sortableProp struct {
	owner *facts.ClassFacts
	prop  *facts.PropertyFacts
}

// EvaluateClass produces the violations for one class in the fixed
// per-class order: unused-default, missing-default, invalid-default-ref,
// then invalid-type per offending property in chain/declaration order.
func (e *Evaluator) EvaluateClass(id facts.ClassID) []Violation {
	cf := e.set.Get(id)
	if cf == nil {
		return nil
	}

	sortables := e.sortableProps(id)
	def := e.resolveDefault(id)

	var out []Violation

	if def != nil && len(sortables) == 0 {
		out = append(out, Violation{Kind: ViolationUnusedDefault, Class: id})
	}
	if def == nil && len(sortables) > 0 {
		out = append(out, Violation{Kind: ViolationMissingDefault, Class: id})
	}
	if def != nil {
		if v, bad := e.checkDefaultRef(cf, def); bad {
			out = append(out, v)
		}
	}
	if e.rules == RuleSetExtended {
		for _, sp := range sortables {
			if e.whitelist.Allows(e.set.NameOf(sp.prop.TypeName)) {
				continue
			}
			out = append(out, Violation{
				Kind:     ViolationInvalidType,
				Class:    id,
				Property: sp.prop.Name,
				PropSpan: sp.prop.NameSpan,
				TypeName: sp.prop.TypeName,
			})
		}
	}
	return out
}

// sortableProps collects the union of sortable properties across the base
// chain, self first, members in declaration order. Same-named declarations
// on different chain levels both count.
func (e *Evaluator) sortableProps(id facts.ClassID) []sortableProp {
	var out []sortableProp
	it := e.set.Chain(id)
	for {
		cf, ok := it.Next()
		if !ok {
			return out
		}
		for i := range cf.Props {
			if cf.Props[i].Sortable {
				out = append(out, sortableProp{owner: cf, prop: &cf.Props[i]})
			}
		}
	}
}

// resolveDefault finds the nearest chain class carrying its own default
// marker, starting at the class itself. Markers further up are shadowed,
// never merged.
func (e *Evaluator) resolveDefault(id facts.ClassID) *facts.DefaultMarker {
	it := e.set.Chain(id)
	for {
		cf, ok := it.Next()
		if !ok {
			return nil
		}
		if cf.Default != nil {
			return cf.Default
		}
	}
}

// checkDefaultRef resolves the marker's named property: first among the
// evaluated class's own members, else among the marker owner's own members.
// Intermediate ancestors are deliberately unreachable here. Missing or
// non-sortable resolution yields a violation carrying the referenced name.
func (e *Evaluator) checkDefaultRef(cf *facts.ClassFacts, def *facts.DefaultMarker) (Violation, bool) {
	prop := findOwn(cf, def.Property)
	if prop == nil && def.Owner != cf.ID {
		if owner := e.set.Get(def.Owner); owner != nil {
			prop = findOwn(owner, def.Property)
		}
	}

	if prop != nil && prop.Sortable {
		return Violation{}, false
	}
	v := Violation{
		Kind:     ViolationInvalidDefaultRef,
		Class:    cf.ID,
		Property: def.Property,
	}
	if prop != nil {
		v.PropSpan = prop.NameSpan
	}
	return v, true
}

// findOwn returns the first own member with the name, in declaration order.
func findOwn(cf *facts.ClassFacts, name source.StringID) *facts.PropertyFacts {
	if !name.IsValid() {
		return nil
	}
	for i := range cf.Props {
		if cf.Props[i].Name == name {
			return &cf.Props[i]
		}
	}
	return nil
}
