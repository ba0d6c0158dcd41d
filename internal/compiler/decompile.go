package compiler

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/types"
)

// Decompile converts a live blueprint back to its storage form.
// Building the result with the same lookup yields an equivalent tree.
func Decompile(bp *domain.Blueprint) *domain.Definition {
	def := &domain.Definition{
		ID:       bp.ID(),
		Generics: bp.Params(),
	}
	if len(def.Generics) == 0 {
		def.Generics = nil
	}

	for _, d := range bp.Delegates() {
		ports := d.Ports()
		if d.IsMain() && len(ports) == 0 {
			continue
		}
		dd := domain.DelegateDefinition{Name: d.Name()}
		for _, p := range ports {
			dd.Ports = append(dd.Ports, domain.PortDefinition{
				Path:      p.Path(),
				Direction: p.Direction().String(),
				Type:      p.Type().Name(),
			})
		}
		def.Delegates = append(def.Delegates, dd)
	}

	for _, op := range bp.Operators() {
		od := domain.OperatorDefinition{
			Name:      op.Name(),
			Blueprint: op.Blueprint().ID(),
		}
		tbl := op.Generics()
		for _, name := range tbl.Names() {
			typ := tbl.Get(name)
			if types.IsPlaceholder(typ) {
				continue
			}
			if od.Generics == nil {
				od.Generics = make(map[string]string)
			}
			od.Generics[name] = typ.Name()
		}
		def.Operators = append(def.Operators, od)
	}

	for _, c := range bp.Connections() {
		def.Connections = append(def.Connections, domain.ConnectionDefinition{
			From: c.From.String(),
			To:   c.To.String(),
		})
	}

	return def
}
