package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reference"
)

// Overlay contains editor state to visualize on the graph.
type Overlay struct {
	// Selected operator names.
	Selected []string
}

// GenerateMermaid produces a Mermaid flowchart of a blueprint.
// Shapes:
// - Boundary delegates: (["Stadium"]), one node per direction
// - Operators: [["Subroutine"]], with unresolved generics listed
// Operators whose generics are unresolved get the "generic" class.
func GenerateMermaid(bp *domain.Blueprint, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, d := range bp.Delegates() {
		if d.PortIn() != nil {
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", boundaryID(d.Name(), true), boundaryLabel(d.Name(), true)))
		}
		if d.PortOut() != nil {
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", boundaryID(d.Name(), false), boundaryLabel(d.Name(), false)))
		}
	}

	var unresolved []string
	for _, op := range bp.Operators() {
		label := fmt.Sprintf("%s<br/>%s", op.Name(), op.Blueprint().ID())
		if open := op.Generics().Unresolved(); len(open) > 0 {
			label += "<br/>" + strings.Join(open, ", ") + " = ?"
			unresolved = append(unresolved, operatorID(op.Name()))
		}
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", operatorID(op.Name()), escape(label)))
	}

	for _, c := range bp.Connections() {
		from := endpointID(bp, c.From)
		to := endpointID(bp, c.To)

		arrow := "-->"
		if label := edgeLabel(c); label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(label))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if len(unresolved) > 0 {
		sb.WriteString("\n    classDef generic stroke-dasharray: 5 5;\n")
		for _, id := range unresolved {
			sb.WriteString(fmt.Sprintf("    class %s generic;\n", id))
		}
	}

	if overlay != nil && len(overlay.Selected) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, name := range overlay.Selected {
			if bp.Operator(name) == nil || seen[name] {
				continue
			}
			seen[name] = true
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", operatorID(name)))
		}
	}

	return sb.String()
}

// endpointID maps a wire endpoint to the node drawing it.
func endpointID(bp *domain.Blueprint, info reference.Info) string {
	if info.Instance == "" {
		return boundaryID("", info.DirectionIn)
	}
	if bp.Operator(info.Instance) != nil {
		return operatorID(info.Instance)
	}
	return boundaryID(info.Instance, info.DirectionIn)
}

func edgeLabel(c domain.Connection) string {
	from, to := portLabel(c.From), portLabel(c.To)
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return "→ " + to
	case to == "":
		return from + " →"
	default:
		return from + " → " + to
	}
}

func portLabel(info reference.Info) string {
	if info.Delegate != nil {
		if info.Port == "" {
			return *info.Delegate
		}
		return *info.Delegate + ":" + info.Port
	}
	return info.Port
}

func boundaryID(delegate string, in bool) string {
	dir := "out"
	if in {
		dir = "in"
	}
	if delegate == "" {
		return dir
	}
	return dir + "_" + sanitizeMermaidID(delegate)
}

func boundaryLabel(delegate string, in bool) string {
	dir := "out"
	if in {
		dir = "in"
	}
	if delegate == "" {
		return dir
	}
	return delegate + " " + dir
}

func operatorID(name string) string {
	return "op_" + sanitizeMermaidID(name)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
