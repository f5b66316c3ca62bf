package main

import "bytes"

// Lazy is a suspended byte-code generator that runs at most once and
// memoizes its result (spec.md §3 "Definition", §4.4 "Lazy assembly").
// Forcing is idempotent: a second Force call never re-runs gen and never
// re-enters the shrinker, satisfying the "Shrink idempotence" property of
// spec.md §8.
type Lazy struct {
	gen    func() ([]byte, error)
	forced bool
	bytes  []byte
	err    error
}

// NewLazy wraps a generator function as an unforced Lazy.
func NewLazy(gen func() ([]byte, error)) *Lazy {
	return &Lazy{gen: gen}
}

// Force runs the generator on first call and returns its memoized result
// (and any memoized error) on every call thereafter. A failing force is
// also memoized: per spec.md §4.4 a definition whose source references an
// unknown word does not get a second chance to resolve differently.
func (l *Lazy) Force() ([]byte, error) {
	if !l.forced {
		l.bytes, l.err = l.gen()
		l.forced = true
		l.gen = nil // release closure once it has served its purpose
	}
	return l.bytes, l.err
}

// Forced reports whether Force has already run, without forcing it.
func (l *Lazy) Forced() bool { return l.forced }

// MemberToken is the opaque foreign-language member handle spec.md §3/§4.2
// documents as advisory metadata used only by the excluded foreign-bytecode
// translator (spec.md §1 Non-goals). It is modeled so Definition's shape
// matches the spec exactly, even though nothing in this repo populates it.
type MemberToken struct {
	Present bool
	Value   uint32
}

// Definition is a single dictionary entry: a name bound to a lazily
// produced byte sequence, optionally annotated as a host-visible alias for
// a primitive instruction and/or tagged with a foreign member token
// (spec.md §3 "Definition").
type Definition struct {
	Brief  Instruction // nil (None) unless this word is a primitive alias
	Word   string
	Code   *Lazy
	Member MemberToken
}

// Dictionary is the ordered, append-only list of definitions spec.md §3/§4.2
// describes. All lookups traverse newest-first so that later definitions
// shadow earlier ones of the same name; this is load-bearing for the
// "Dictionary shadowing" property in spec.md §8 and must not be
// short-circuited by a name->definition map.
type Dictionary struct {
	defs []*Definition
	init func(*Dictionary)
}

// NewDictionary creates an empty dictionary and immediately populates it
// by running init, mirroring spec.md §3's "created empty at startup,
// populated by an initializer" lifecycle. init is retained so Reset can
// repopulate it again later.
func NewDictionary(init func(*Dictionary)) *Dictionary {
	d := &Dictionary{init: init}
	if init != nil {
		init(d)
	}
	return d
}

// Define appends a new definition. Definitions are appended, never patched
// in place (spec.md §4.2); shadowing an existing name is done by adding a
// new entry, not by mutating the old one.
func (d *Dictionary) Define(brief Instruction, word string, code *Lazy) *Definition {
	def := &Definition{Brief: brief, Word: word, Code: code}
	d.defs = append(d.defs, def)
	return def
}

// FindByName looks up the newest definition with the given word name.
func (d *Dictionary) FindByName(word string) (*Definition, bool) {
	for i := len(d.defs) - 1; i >= 0; i-- {
		if d.defs[i].Word == word {
			return d.defs[i], true
		}
	}
	return nil, false
}

// FindByBrief looks up the newest definition whose Brief instruction equals
// the given primitive alias (the "primitive reverse-map" of spec.md §4.2).
func (d *Dictionary) FindByBrief(brief Instruction) (*Definition, bool) {
	for i := len(d.defs) - 1; i >= 0; i-- {
		if d.defs[i].Brief == nil {
			continue
		}
		if d.defs[i].Brief == brief {
			return d.defs[i], true
		}
	}
	return nil, false
}

// FindByCode looks up the newest definition whose forced byte code exactly
// equals code (used only by the disassembler, spec.md §4.2). This forces
// every definition it must compare against, which is only ever exercised
// from disassembly of already-committed device code, never from the hot
// compile path.
func (d *Dictionary) FindByCode(code []byte) (*Definition, bool) {
	for i := len(d.defs) - 1; i >= 0; i-- {
		b, err := d.defs[i].Code.Force()
		if err != nil {
			continue
		}
		if bytes.Equal(b, code) {
			return d.defs[i], true
		}
	}
	return nil, false
}

// Len reports the number of entries currently in the dictionary.
func (d *Dictionary) Len() int { return len(d.defs) }

// Reset drops all entries and re-runs the initializer (spec.md §4.2).
func (d *Dictionary) Reset() {
	d.defs = d.defs[:0]
	if d.init != nil {
		d.init(d)
	}
}
