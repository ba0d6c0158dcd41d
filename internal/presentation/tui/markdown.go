package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/internal/dto"
)

// BlueprintMarkdown describes a blueprint view as a Markdown document.
func BlueprintMarkdown(view dto.Blueprint) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", view.ID)
	if len(view.Generics) > 0 {
		fmt.Fprintf(&sb, "Generics: `%s`\n\n", strings.Join(view.Generics, "`, `"))
	}

	sb.WriteString("## Interface\n\n")
	for _, d := range view.Delegates {
		writeDelegate(&sb, d, "###")
	}

	if len(view.Operators) > 0 {
		sb.WriteString("## Operators\n\n")
		for _, op := range view.Operators {
			status := "resolved"
			if !op.Resolved {
				status = "unresolved"
			}
			fmt.Fprintf(&sb, "### %s (`%s`, %s)\n\n", op.Name, op.Blueprint, status)
			if len(op.Generics) > 0 {
				names := make([]string, 0, len(op.Generics))
				for name := range op.Generics {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(&sb, "- `%s` = `%s`\n", name, op.Generics[name])
				}
				sb.WriteString("\n")
			}
			for _, d := range op.Delegates {
				writeDelegate(&sb, d, "####")
			}
		}
	}

	if len(view.Connections) > 0 {
		sb.WriteString("## Connections\n\n")
		for _, c := range view.Connections {
			fmt.Fprintf(&sb, "- `%s` → `%s`\n", c.From, c.To)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeDelegate(sb *strings.Builder, d dto.Delegate, heading string) {
	if len(d.Ports) == 0 {
		return
	}
	name := d.Name
	if name == "" {
		name = "main"
	}
	fmt.Fprintf(sb, "%s %s\n\n", heading, name)
	sb.WriteString("| Reference | Direction | Type | Resolved |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, p := range d.Ports {
		fmt.Fprintf(sb, "| `%s` | %s | `%s` | `%s` |\n", p.Reference, p.Direction, p.Type, p.Resolved)
	}
	sb.WriteString("\n")
}
