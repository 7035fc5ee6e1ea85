package compiler

import "github.com/pkg/errors"

// symtab holds the three symbol pools (C2 §4.2), the procedure list and the
// stack of currently-open procedure names, and the LITERALLY text constants
// (SPEC_FULL.md §3). Resolution order is documented on lookup.
type symtab struct {
	located   []*Symbol // sym_list: consumes image addresses in order
	unlocated []*Symbol // uni_list: uninitialised storage, addressed at output
	anon      []*Symbol // anon_list: synthesised `.( ... )` byte arrays
	procs     []*Symbol // every declared procedure, in declaration order

	procStack []string // names of procedures currently open, innermost last

	literals map[string]string // LITERALLY text constants

	pseudoCount int // number of pre-registered pseudo symbols in located[]
}

func newSymtab() *symtab {
	return &symtab{literals: make(map[string]string)}
}

// lookup resolves name per spec.md §4.2:
//  1. for each open procedure, innermost out: "_proc_name" in located
//     (excluding labels) then unlocated
//  2. plain name in located (excluding labels) then unlocated
//  3. procedures, most-recently-declared first
//  4. anonymous pool
func (t *symtab) lookup(name string) *Symbol {
	for i := len(t.procStack) - 1; i >= 0; i-- {
		mangled := mangle(t.procStack[i], name)
		if s := lookupIn(t.located, mangled, true); s != nil {
			return s
		}
		if s := lookupIn(t.unlocated, mangled, false); s != nil {
			return s
		}
	}
	if s := lookupIn(t.located, name, true); s != nil {
		return s
	}
	if s := lookupIn(t.unlocated, name, false); s != nil {
		return s
	}
	for i := len(t.procs) - 1; i >= 0; i-- {
		if t.procs[i].Name == name {
			return t.procs[i]
		}
	}
	for _, s := range t.anon {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// lookupIn scans a pool for name, optionally excluding Labels (value lookups
// reserve plain-identifier recognition for data/procedure contexts; label
// references are left symbolic for the external assembler, spec.md §4.2).
func lookupIn(pool []*Symbol, name string, excludeLabels bool) *Symbol {
	for _, s := range pool {
		if excludeLabels && s.Kind == KindLabel {
			continue
		}
		if s.Name == name {
			return s
		}
	}
	return nil
}

func mangle(proc, name string) string {
	return "_" + proc + "_" + name
}

// currentProc returns the innermost open procedure name, or "" if none.
func (t *symtab) currentProc() string {
	if len(t.procStack) == 0 {
		return ""
	}
	return t.procStack[len(t.procStack)-1]
}

// qualify returns name mangled for the current procedure scope, or name
// itself at top level.
func (t *symtab) qualify(name string) string {
	if p := t.currentProc(); p != "" {
		return mangle(p, name)
	}
	return name
}

// checkRedeclared checks for redeclaration (spec.md §7, §3 invariants: "a symbol is
// defined at most once in any scope chain visible at the point of
// declaration") and returns an error if name already resolves.
func (t *symtab) checkRedeclared(name string) error {
	if t.lookup(name) != nil {
		return errors.Errorf("name %s already defined", name)
	}
	return nil
}

func (t *symtab) procByName(name string) *Symbol {
	for _, p := range t.procs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// checkArgWidth records the declared width of a procedure argument the
// first time its DECLARE statement is seen in the body (spec.md §3
// "arg_widths... patched when the matching argument declaration is seen").
func (t *symtab) checkArgWidth(name string, w Width) {
	proc := t.currentProc()
	if proc == "" {
		return
	}
	p := t.procByName(proc)
	if p == nil {
		return
	}
	for i, arg := range p.ArgNames {
		if arg == name {
			p.ArgWidths[i] = w
		}
	}
}
