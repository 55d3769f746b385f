// File: config.go
// Role: Solver registry and configuration (spec.md §4.3). Mirrors the
// reference corpus's flow package shape: a struct built once, configured
// through small setter methods, then driven through Solve/Mine.
package solver

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/circuitiso/sgiso/graph"
)

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithLogger overrides the default logger, a fresh logrus.New() writing to
// stderr. New sets the chosen logger's level to Warn when silent and Debug
// when verbose.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// WithVerbose starts the Solver with verbose tracing enabled (equivalent
// to calling SetVerbose(true) immediately after construction).
func WithVerbose(v bool) Option {
	return func(s *Solver) { s.verbose = v }
}

// WithHooks installs user callback hooks (spec.md §4.3).
func WithHooks(h Hooks) Option {
	return func(s *Solver) { s.hooks = h }
}

// Solver holds a registry of frozen graphs plus the compatibility tables,
// swap-permutation groups, overlap history, and hooks that parameterize
// Solve and Mine.
type Solver struct {
	mu sync.RWMutex

	graphs map[string]*graph.Graph

	// typeCompat[needleType][haystackType] = true. A needle type is always
	// implicitly compatible with itself.
	typeCompat map[string]map[string]bool

	// constCompat[needleConst][haystackConst] = true. A needle constant is
	// always implicitly compatible with itself.
	constCompat map[byte]map[byte]bool

	swapGroups map[string][][]string
	extraPerms map[string][]Permutation

	// permCache[type] is rebuilt lazily and invalidated by any config
	// mutation touching swap groups or extra permutations.
	permCache map[string][]Permutation

	// overlap[haystackName] is the set of haystack nodes consumed by prior
	// non-overlapping accepted solutions against that haystack.
	overlap map[string]map[graph.NodeIndex]bool

	verbose bool
	log     *logrus.Logger
	hooks   Hooks
}

// New returns an empty Solver ready to accept AddGraph calls.
func New(opts ...Option) *Solver {
	s := &Solver{
		graphs:      make(map[string]*graph.Graph),
		typeCompat:  make(map[string]map[string]bool),
		constCompat: make(map[byte]map[byte]bool),
		swapGroups:  make(map[string][][]string),
		extraPerms:  make(map[string][]Permutation),
		permCache:   make(map[string][]Permutation),
		overlap:     make(map[string]map[graph.NodeIndex]bool),
		log:         logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log.SetLevel(logrus.WarnLevel)
	if s.verbose {
		s.log.SetLevel(logrus.DebugLevel)
	}
	return s
}

// AddGraph registers a frozen graph under name, used thereafter as either a
// needle or a haystack id.
//
// Errors: ErrDuplicateGraph.
func (s *Solver) AddGraph(name string, g *graph.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.graphs[name]; exists {
		return solverErrorf("AddGraph", ErrDuplicateGraph, "name=%q", name)
	}
	s.graphs[name] = g
	return nil
}

// AddCompatibleTypes declares that a needle node of type needleType may map
// onto a haystack node of type haystackType, in addition to the implicit
// identity compatibility (spec.md §4.3).
func (s *Solver) AddCompatibleTypes(needleType, haystackType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typeCompat[needleType] == nil {
		s.typeCompat[needleType] = make(map[string]bool)
	}
	s.typeCompat[needleType][haystackType] = true
}

// AddCompatibleConstants declares that a needle Signal driven by
// needleConst may match a haystack Signal driven by haystackConst, in
// addition to the implicit identity compatibility (spec.md §4.4.5).
func (s *Solver) AddCompatibleConstants(needleConst, haystackConst byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.constCompat[needleConst] == nil {
		s.constCompat[needleConst] = make(map[byte]bool)
	}
	s.constCompat[needleConst][haystackConst] = true
}

// AddSwappablePorts registers a swap group for node type typ: every
// permutation of ports is implicitly allowed when matching a needle node
// of this type (spec.md §4.3).
//
// Errors: ErrEmptySwapGroup.
func (s *Solver) AddSwappablePorts(typ string, ports ...string) error {
	if len(ports) < 2 {
		return solverErrorf("AddSwappablePorts", ErrEmptySwapGroup, "type=%q ports=%v", typ, ports)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := append([]string(nil), ports...)
	s.swapGroups[typ] = append(s.swapGroups[typ], cp)
	delete(s.permCache, typ)
	return nil
}

// AddSwappablePortsPermutation registers one explicit extra permutation for
// node type typ, mapping each from[i] to to[i]. to must be a permutation of
// from (spec.md §4.3).
//
// Errors: ErrMalformedPermutation.
func (s *Solver) AddSwappablePortsPermutation(typ string, from, to []string) error {
	if len(from) != len(to) {
		return solverErrorf("AddSwappablePortsPermutation", ErrMalformedPermutation, "type=%q len(from)=%d len(to)=%d", typ, len(from), len(to))
	}
	count := make(map[string]int, len(from))
	for _, p := range from {
		count[p]++
	}
	for _, p := range to {
		count[p]--
	}
	for _, c := range count {
		if c != 0 {
			return solverErrorf("AddSwappablePortsPermutation", ErrMalformedPermutation, "type=%q: to is not a permutation of from", typ)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := make(Permutation, len(from))
	for i := range from {
		p[from[i]] = to[i]
	}
	s.extraPerms[typ] = append(s.extraPerms[typ], p)
	delete(s.permCache, typ)
	return nil
}

// ClearConfig resets compatibility tables, swap groups, and hooks, leaving
// the graph registry and overlap history untouched.
func (s *Solver) ClearConfig() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.typeCompat = make(map[string]map[string]bool)
	s.constCompat = make(map[byte]map[byte]bool)
	s.swapGroups = make(map[string][][]string)
	s.extraPerms = make(map[string][]Permutation)
	s.permCache = make(map[string][]Permutation)
	s.hooks = Hooks{}
}

// ClearOverlapHistory forgets every haystack node consumed by earlier
// non-overlapping Solve calls.
func (s *Solver) ClearOverlapHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlap = make(map[string]map[graph.NodeIndex]bool)
}

// SetVerbose toggles the logger between Debug and Warn level. At Debug
// level each match run logs one "solve complete" entry with the needle,
// haystack and result count; individual refinement and backtracking steps
// are not logged.
func (s *Solver) SetVerbose(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verbose = v
	if v {
		s.log.SetLevel(logrus.DebugLevel)
	} else {
		s.log.SetLevel(logrus.WarnLevel)
	}
}

// SetHooks installs user callback hooks, replacing any previously set.
func (s *Solver) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Solver) typeCompatible(needleType, haystackType string) bool {
	if needleType == haystackType {
		return true
	}
	return s.typeCompat[needleType][haystackType]
}

func (s *Solver) constCompatible(needleConst, haystackConst byte) bool {
	if needleConst == haystackConst {
		return true
	}
	return s.constCompat[needleConst][haystackConst]
}

// permutationsFor returns Π(typ), computing and caching it if necessary.
// Callers must hold the write lock: a cache miss stores into s.permCache.
func (s *Solver) permutationsFor(typ string) []Permutation {
	if p, ok := s.permCache[typ]; ok {
		return p
	}
	groups := s.swapGroups[typ]
	extra := s.extraPerms[typ]
	p := buildPermutationSet(groups, extra)
	s.permCache[typ] = p
	return p
}

func (s *Solver) graphByName(name string) (*graph.Graph, error) {
	g, ok := s.graphs[name]
	if !ok {
		return nil, solverErrorf("graphByName", ErrUnknownGraph, "name=%q", name)
	}
	return g, nil
}

// GraphNames returns the registered graph names in sorted order, for
// deterministic iteration over the registry.
func (s *Solver) GraphNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.graphs))
	for name := range s.graphs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
