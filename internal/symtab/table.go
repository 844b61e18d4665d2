// Package symtab implements the project-wide symbol table: a
// separate-chaining hash index of qualified names to definitions with
// scope-aware lookup and per-file removal.
package symtab

import (
	"sync"

	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/types"
)

// DefaultBucketCount is the initial bucket count when none is configured.
const DefaultBucketCount = 64

// maxLoadFactor triggers a rehash to double the bucket count when exceeded.
const maxLoadFactor = 0.75

// Entry describes one registered symbol. Node is a weak reference: the
// caller must keep file ASTs alive at least as long as the table holds
// entries for them.
type Entry struct {
	QualifiedName string
	SimpleName    string
	Node          *types.ASTNode
	FilePath      string
	Language      types.Language
	Scope         types.SymbolScope
	IsDefinition  bool
	ModulePath    string
	Parent        *Entry

	next *Entry
}

// Table is the global symbol table. All operations are safe for concurrent
// use; registration serializes on the write lock since a rehash touches
// every bucket.
type Table struct {
	mu            sync.RWMutex
	buckets       []*Entry
	count         int
	collisions    int
	scopePrefixes []string
	prefixSeen    map[string]bool
}

// New creates a table with the default initial bucket count.
func New() *Table {
	return NewWithBuckets(DefaultBucketCount)
}

// NewWithBuckets creates a table with a specific initial bucket count.
func NewWithBuckets(buckets int) *Table {
	if buckets < 1 {
		buckets = DefaultBucketCount
	}
	return &Table{
		buckets:    make([]*Entry, buckets),
		prefixSeen: make(map[string]bool),
	}
}

// hashString is the multiplicative string hash: hash = hash*31 + byte.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// simpleName is the suffix after the last scope separator ("." or ":").
func simpleName(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == '.' || qualifiedName[i] == ':' {
			return qualifiedName[i+1:]
		}
	}
	return qualifiedName
}

// Register inserts a symbol under its qualified name. Duplicate qualified
// names are permitted and chained; lookup returns the most recent insert.
func (t *Table) Register(qualifiedName string, node *types.ASTNode, filePath string, scope types.SymbolScope, language types.Language) *Entry {
	if qualifiedName == "" || node == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := &Entry{
		QualifiedName: qualifiedName,
		SimpleName:    simpleName(qualifiedName),
		Node:          node,
		FilePath:      filePath,
		Language:      language,
		Scope:         scope,
		IsDefinition:  true,
	}

	idx := hashString(qualifiedName) % uint32(len(t.buckets))
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.QualifiedName == qualifiedName {
			t.collisions++
			debug.LogSymbols("duplicate qualified name %s (%s, then %s)\n", qualifiedName, e.FilePath, filePath)
			break
		}
	}

	// Head insertion makes the newest entry the first chain hit.
	entry.next = t.buckets[idx]
	t.buckets[idx] = entry
	t.count++

	if float64(t.count)/float64(len(t.buckets)) > maxLoadFactor {
		t.rehashLocked(len(t.buckets) * 2)
	}
	return entry
}

// rehashLocked redistributes every entry over a new bucket array. Chain
// order within a bucket is preserved so the most-recent-insert lookup
// guarantee survives the rehash.
func (t *Table) rehashLocked(newSize int) {
	old := t.buckets
	t.buckets = make([]*Entry, newSize)
	for i := len(old) - 1; i >= 0; i-- {
		// Walk each old chain in reverse so head insertion restores the
		// original order.
		var reversed []*Entry
		for e := old[i]; e != nil; e = e.next {
			reversed = append(reversed, e)
		}
		for j := len(reversed) - 1; j >= 0; j-- {
			e := reversed[j]
			idx := hashString(e.QualifiedName) % uint32(newSize)
			e.next = t.buckets[idx]
			t.buckets[idx] = e
		}
	}
	debug.LogSymbols("rehashed to %d buckets (%d entries)\n", newSize, t.count)
}

// Lookup finds the most recently registered entry for a qualified name.
func (t *Table) Lookup(qualifiedName string) *Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lookupLocked(qualifiedName)
}

func (t *Table) lookupLocked(qualifiedName string) *Entry {
	if t.count == 0 || qualifiedName == "" {
		return nil
	}
	idx := hashString(qualifiedName) % uint32(len(t.buckets))
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.QualifiedName == qualifiedName {
			return e
		}
	}
	return nil
}

// RegisterScopePrefix records a namespace/module path used as a fallback
// context for unqualified lookups.
func (t *Table) RegisterScopePrefix(prefix string) {
	if prefix == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.prefixSeen[prefix] {
		t.prefixSeen[prefix] = true
		t.scopePrefixes = append(t.scopePrefixes, prefix)
	}
}

// ScopeLookup resolves a possibly-unqualified name. Resolution order: the
// name as-is, then joined to the current scope, then to every registered
// scope prefix, then the language's builtin scope. C/C++ joins try "::"
// first and fall back to "." since registration keys are dotted.
func (t *Table) ScopeLookup(name, currentScope string, language types.Language) *Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e := t.lookupLocked(name); e != nil {
		return e
	}

	seps := []string{language.ScopeSeparator()}
	if seps[0] != "." {
		seps = append(seps, ".")
	}

	if currentScope != "" {
		for _, sep := range seps {
			if e := t.lookupLocked(currentScope + sep + name); e != nil {
				return e
			}
		}
	}

	for _, prefix := range t.scopePrefixes {
		for _, sep := range seps {
			if e := t.lookupLocked(prefix + sep + name); e != nil {
				return e
			}
		}
	}

	switch language {
	case types.LangPython:
		return t.lookupLocked("builtins." + name)
	case types.LangJavaScript, types.LangTypeScript:
		return t.lookupLocked("global." + name)
	}
	return nil
}

// registrableTypes are the node types RegisterFromAST indexes wherever they
// appear in the tree.
var registrableTypes = map[types.NodeType]bool{
	types.NodeFunction:  true,
	types.NodeClass:     true,
	types.NodeStruct:    true,
	types.NodeEnum:      true,
	types.NodeTypedef:   true,
	types.NodeInterface: true,
	types.NodeMethod:    true,
	types.NodeModule:    true,
	types.NodeNamespace: true,
}

// containerTypes extend the scope for their descendants.
var containerTypes = map[types.NodeType]bool{
	types.NodeClass:     true,
	types.NodeStruct:    true,
	types.NodeInterface: true,
	types.NodeNamespace: true,
	types.NodeModule:    true,
}

// RegisterFromAST walks a file's AST and registers every indexable
// definition under the accumulating dotted scope. An empty currentScope
// starts from the root node's name. Returns the number of registered
// symbols.
func (t *Table) RegisterFromAST(node *types.ASTNode, currentScope, filePath string, language types.Language) int {
	if node == nil {
		return 0
	}
	if node.Type == types.NodeRoot {
		if currentScope == "" {
			currentScope = node.Name
		}
		t.RegisterScopePrefix(currentScope)
		count := 0
		for _, child := range node.Children {
			count += t.registerNode(child, currentScope, filePath, language, true)
		}
		return count
	}
	return t.registerNode(node, currentScope, filePath, language, false)
}

func (t *Table) registerNode(node *types.ASTNode, currentScope, filePath string, language types.Language, topLevel bool) int {
	count := 0
	register := registrableTypes[node.Type]
	// Variables are indexed only at file scope.
	if node.Type == types.NodeVariable && topLevel {
		register = true
	}

	childScope := currentScope
	if register && node.Name != "" {
		qualifiedName := node.Name
		if currentScope != "" {
			qualifiedName = currentScope + "." + node.Name
		}
		scope := types.ScopeFile
		if topLevel {
			scope = types.ScopeGlobal
		}
		if entry := t.Register(qualifiedName, node, filePath, scope, language); entry != nil {
			count++
		}
		if containerTypes[node.Type] {
			childScope = qualifiedName
			t.RegisterScopePrefix(childScope)
		}
	}

	// Module bodies are file-level scope: their direct variables index too.
	for _, child := range node.Children {
		count += t.registerNode(child, childScope, filePath, language, node.Type == types.NodeModule)
	}
	return count
}

// GetByType returns every entry whose node has the given canonical type.
func (t *Table) GetByType(nodeType types.NodeType) []*Entry {
	return t.filter(func(e *Entry) bool {
		return e.Node != nil && e.Node.Type == nodeType
	})
}

// GetByFile returns every entry registered from the given file path.
func (t *Table) GetByFile(filePath string) []*Entry {
	return t.filter(func(e *Entry) bool { return e.FilePath == filePath })
}

// GetByLanguage returns every entry for the given language.
func (t *Table) GetByLanguage(language types.Language) []*Entry {
	return t.filter(func(e *Entry) bool { return e.Language == language })
}

// GetByScope returns every entry with the given symbol scope.
func (t *Table) GetByScope(scope types.SymbolScope) []*Entry {
	return t.filter(func(e *Entry) bool { return e.Scope == scope })
}

func (t *Table) filter(match func(*Entry) bool) []*Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Entry
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			if match(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// RemoveByFile deletes every entry registered from filePath, supporting
// incremental re-parsing of one file. Returns the number removed.
func (t *Table) RemoveByFile(filePath string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for i, head := range t.buckets {
		var prev *Entry
		for e := head; e != nil; {
			next := e.next
			if e.FilePath == filePath {
				if prev == nil {
					t.buckets[i] = next
				} else {
					prev.next = next
				}
				e.next = nil
				removed++
				t.count--
			} else {
				prev = e
			}
			e = next
		}
	}
	if removed > 0 {
		debug.LogSymbols("removed %d symbols for %s\n", removed, filePath)
	}
	return removed
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Collisions returns how many registrations duplicated an existing
// qualified name.
func (t *Table) Collisions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.collisions
}

// BucketCount returns the current bucket array size.
func (t *Table) BucketCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.buckets)
}

// All returns every entry in the table.
func (t *Table) All() []*Entry {
	return t.filter(func(*Entry) bool { return true })
}
