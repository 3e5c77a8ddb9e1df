package utils

// NoSymbol is returned by Lookup for strings that were never interned.
const NoSymbol int32 = -1

// SymbolTable interns strings to dense IDs in first-seen order.
//
// A table is filled while a model is trained and locked afterwards; a locked
// table no longer accepts new strings, so it can be read from any number of
// goroutines without synchronisation.
type SymbolTable struct {
	ids      map[string]int32
	names    []string
	isLocked bool
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ids: make(map[string]int32)}
}

// Intern returns the ID of s, adding it if needed. Interning into a locked
// table behaves like Lookup.
func (st *SymbolTable) Intern(s string) int32 {
	if id, ok := st.ids[s]; ok {
		return id
	}
	if st.isLocked {
		return NoSymbol
	}
	id := int32(len(st.names))
	st.ids[s] = id
	st.names = append(st.names, s)
	return id
}

func (st *SymbolTable) Lookup(s string) int32 {
	if id, ok := st.ids[s]; ok {
		return id
	}
	return NoSymbol
}

func (st *SymbolTable) Name(id int32) string {
	return st.names[id]
}

func (st *SymbolTable) Len() int {
	return len(st.names)
}

// Names returns the interned strings in ID order.
func (st *SymbolTable) Names() []string {
	out := make([]string, len(st.names))
	copy(out, st.names)
	return out
}

// Clone returns an unlocked copy that shares nothing with st.
func (st *SymbolTable) Clone() *SymbolTable {
	c := &SymbolTable{
		ids:   make(map[string]int32, len(st.ids)),
		names: make([]string, len(st.names)),
	}
	copy(c.names, st.names)
	for k, v := range st.ids {
		c.ids[k] = v
	}
	return c
}

func (st *SymbolTable) Lock() {
	st.isLocked = true
}

func (st *SymbolTable) IsLocked() bool {
	return st.isLocked
}
