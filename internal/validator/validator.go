package validator

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/types"
)

// Report collects the issues found in a workspace.
type Report struct {
	Checked int
	Issues  []Issue
}

// Err returns an *AggregateError of the error-level issues, or nil.
// With strict set, warnings count as errors.
func (r *Report) Err(strict bool) error {
	var errs []error
	for i := range r.Issues {
		issue := &r.Issues[i]
		if issue.Severity == SeverityError || strict {
			errs = append(errs, issue)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// Count returns the number of issues with severity s.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

func (r *Report) add(bp string, s Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Blueprint: bp, Severity: s, Reason: fmt.Sprintf(format, args...)})
}

// ValidateWorkspace compiles every blueprint the loader lists and inspects the result.
//
// Errors: documents that fail to load, parse or build, including dangling
// wires and dependency cycles.
// Warnings: operators left with unresolved generics, and wires whose endpoints
// carry different concrete types.
func ValidateWorkspace(loader ports.BlueprintLoader, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	ids, err := loader.ListBlueprints()
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}

	c := compiler.New(loader, compiler.WithLogger(logger))
	report := &Report{}

	for _, id := range ids {
		report.Checked++
		bp, err := c.Compile(id)
		if err != nil {
			logger.Debug("blueprint failed to compile", "blueprint", id, "error", err)
			report.Issues = append(report.Issues, Issue{Blueprint: id, Severity: SeverityError, Reason: err.Error(), Err: err})
			continue
		}
		inspect(report, bp)
	}
	return report, nil
}

func inspect(report *Report, bp *domain.Blueprint) {
	for _, op := range bp.Operators() {
		if open := op.Generics().Unresolved(); len(open) > 0 {
			report.add(bp.ID(), SeverityWarning, "operator %q leaves generics %v unresolved", op.Name(), open)
		}
	}

	for _, conn := range bp.Connections() {
		from, err := bp.Resolve(conn.From)
		if err != nil {
			report.add(bp.ID(), SeverityError, "wire %s: %v", conn, err)
			continue
		}
		to, err := bp.Resolve(conn.To)
		if err != nil {
			report.add(bp.ID(), SeverityError, "wire %s: %v", conn, err)
			continue
		}

		ft, tt := from.ResolvedType(), to.ResolvedType()
		if !types.IsConcrete(ft) || !types.IsConcrete(tt) {
			continue
		}
		if types.Equal(ft, types.Any()) || types.Equal(tt, types.Any()) {
			continue
		}
		if !types.Equal(ft, tt) {
			report.add(bp.ID(), SeverityWarning, "wire %s connects %s to %s", conn, ft.Name(), tt.Name())
		}
	}
}
