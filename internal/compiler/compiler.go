package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/types"
)

// ErrInvalidDefinition wraps every structural problem found while building a definition.
var ErrInvalidDefinition = errors.New("invalid blueprint definition")

// Lookup returns the compiled blueprint for an ID placed as an operator.
type Lookup func(id string) (*domain.Blueprint, error)

// Compiler turns blueprint documents from a loader into live ownership trees.
// Compiled blueprints are cached by ID; operators placing the same blueprint
// share one definition.
//
// A Compiler is not safe for concurrent use.
type Compiler struct {
	loader   ports.BlueprintLoader
	parser   *Parser
	logger   *slog.Logger
	cache    map[string]*domain.Blueprint
	building map[string]bool
	stack    []string

	onCompile  func(id string, err error)
	onOperator func(op *domain.Operator)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used to report compilation progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithCompileObserver calls fn once per blueprint actually built or failed.
// Cache hits are not reported.
func WithCompileObserver(fn func(id string, err error)) Option {
	return func(c *Compiler) {
		c.onCompile = fn
	}
}

// WithOperatorObserver calls fn for every operator placed while building a blueprint.
func WithOperatorObserver(fn func(op *domain.Operator)) Option {
	return func(c *Compiler) {
		c.onOperator = fn
	}
}

// New creates a compiler reading from loader.
func New(loader ports.BlueprintLoader, opts ...Option) *Compiler {
	c := &Compiler{
		loader:   loader,
		parser:   NewParser(),
		logger:   logging.NewNop(),
		cache:    make(map[string]*domain.Blueprint),
		building: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile loads, parses and builds the blueprint id along with every blueprint it places.
func (c *Compiler) Compile(id string) (*domain.Blueprint, error) {
	if bp, ok := c.cache[id]; ok {
		return bp, nil
	}
	bp, err := c.compile(id)
	if c.onCompile != nil {
		c.onCompile(id, err)
	}
	return bp, err
}

func (c *Compiler) compile(id string) (*domain.Blueprint, error) {
	if c.building[id] {
		chain := append(append([]string{}, c.stack...), id)
		return nil, fmt.Errorf("%w: %s", domain.ErrCycle, strings.Join(chain, " -> "))
	}

	data, err := c.loader.GetBlueprint(id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	def, err := c.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", id, err)
	}
	if def.ID != id {
		return nil, fmt.Errorf("%w: document for %s declares id %q", ErrInvalidDefinition, id, def.ID)
	}

	c.building[id] = true
	c.stack = append(c.stack, id)
	defer func() {
		delete(c.building, id)
		c.stack = c.stack[:len(c.stack)-1]
	}()

	bp, err := build(def, c.Compile, c.onOperator)
	if err != nil {
		return nil, err
	}

	c.cache[id] = bp
	c.logger.Debug("blueprint compiled",
		"blueprint", id,
		"operators", len(bp.Operators()),
		"connections", len(bp.Connections()),
	)
	return bp, nil
}

// CompileAll compiles every blueprint the loader lists, in ID order.
func (c *Compiler) CompileAll() ([]*domain.Blueprint, error) {
	ids, err := c.loader.ListBlueprints()
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	sort.Strings(ids)

	out := make([]*domain.Blueprint, 0, len(ids))
	for _, id := range ids {
		bp, err := c.Compile(id)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

// Reset drops every cached blueprint, so the next Compile reloads from the loader.
func (c *Compiler) Reset() {
	c.cache = make(map[string]*domain.Blueprint)
}

// Build constructs a blueprint from def. Operators are resolved through lookup.
func Build(def *domain.Definition, lookup Lookup) (*domain.Blueprint, error) {
	return build(def, lookup, nil)
}

func build(def *domain.Definition, lookup Lookup, onOperator func(*domain.Operator)) (*domain.Blueprint, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidDefinition)
	}
	if strings.ContainsAny(def.ID, "()#") {
		return nil, fmt.Errorf("%w: id %q contains a reserved character", ErrInvalidDefinition, def.ID)
	}

	bp := domain.NewBlueprint(def.ID, def.Generics...)
	if onOperator != nil {
		cancel := bp.OnOperatorAdded(onOperator)
		defer cancel()
	}

	seen := make(map[string]bool, len(def.Delegates))
	for _, dd := range def.Delegates {
		if seen[dd.Name] {
			return nil, fmt.Errorf("%s: delegate %q: %w", def.ID, dd.Name, domain.ErrDuplicateName)
		}
		seen[dd.Name] = true
		if err := buildDelegate(bp, dd); err != nil {
			return nil, fmt.Errorf("%s: %w", def.ID, err)
		}
	}

	for _, od := range def.Operators {
		if err := buildOperator(bp, od, lookup); err != nil {
			return nil, fmt.Errorf("%s: %w", def.ID, err)
		}
	}

	for _, cd := range def.Connections {
		if _, err := bp.ConnectRefs(cd.From, cd.To); err != nil {
			return nil, fmt.Errorf("%s: %w", def.ID, err)
		}
	}

	return bp, nil
}

func buildDelegate(bp *domain.Blueprint, dd domain.DelegateDefinition) error {
	d := bp.Delegate(dd.Name)
	if d == nil {
		var err error
		d, err = bp.AddDelegate(dd.Name)
		if err != nil {
			return fmt.Errorf("delegate %q: %w", dd.Name, err)
		}
	}

	// Parents before children, keeping document order among siblings.
	portDefs := make([]domain.PortDefinition, len(dd.Ports))
	copy(portDefs, dd.Ports)
	sort.SliceStable(portDefs, func(i, j int) bool {
		return depth(portDefs[i].Path) < depth(portDefs[j].Path)
	})

	for _, pd := range portDefs {
		dir, ok := domain.ParseDirection(pd.Direction)
		if !ok {
			return fmt.Errorf("%w: delegate %q port %q: direction %q", ErrInvalidDefinition, dd.Name, pd.Path, pd.Direction)
		}
		typ, err := types.ParseType(pd.Type)
		if err != nil {
			return fmt.Errorf("%w: delegate %q port %q: %v", ErrInvalidDefinition, dd.Name, pd.Path, err)
		}
		if _, err := d.CreatePort(domain.PortSpec{Direction: dir, Path: pd.Path, Type: typ}); err != nil {
			return fmt.Errorf("delegate %q: %w", dd.Name, err)
		}
	}
	return nil
}

func buildOperator(bp *domain.Blueprint, od domain.OperatorDefinition, lookup Lookup) error {
	if lookup == nil {
		return fmt.Errorf("%w: operator %q places %s but no lookup is available", ErrInvalidDefinition, od.Name, od.Blueprint)
	}
	def, err := lookup(od.Blueprint)
	if err != nil {
		return fmt.Errorf("operator %q: %w", od.Name, err)
	}

	op, err := bp.AddOperator(od.Name, def)
	if err != nil {
		return fmt.Errorf("operator %q: %w", od.Name, err)
	}

	bindings, err := types.ParseTypeMap(od.Generics)
	if err != nil {
		return fmt.Errorf("%w: operator %q: %v", ErrInvalidDefinition, od.Name, err)
	}
	for _, param := range sortedKeys(bindings) {
		for _, ref := range types.Params(bindings[param]) {
			if !bp.Generics().Has(ref) {
				return fmt.Errorf("operator %q: %w: %s", od.Name, domain.ErrUndeclaredParameter, ref)
			}
		}
	}
	if err := op.Generics().SetAll(bindings); err != nil {
		return fmt.Errorf("operator %q: %w", od.Name, err)
	}
	return nil
}

func depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

func sortedKeys(m map[string]types.Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
