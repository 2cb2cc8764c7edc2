package syntax

import (
	"strings"
)

const indent = "    "

// Print renders the declaration tree back to model-file text in canonical
// form. Fix application rewrites whole files, so the printer is the single
// authority on layout.
func Print(u *Unit) string {
	var sb strings.Builder
	for i, cls := range u.Classes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		printClass(&sb, cls)
	}
	return sb.String()
}

func printClass(sb *strings.Builder, c *Class) {
	for _, a := range c.Attrs {
		sb.WriteString(formatAttr(a))
		sb.WriteByte('\n')
	}
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	if c.Base != "" {
		sb.WriteString(" : ")
		sb.WriteString(c.Base)
	}
	sb.WriteString(" {\n")
	for _, p := range c.Props {
		for _, a := range p.Attrs {
			sb.WriteString(indent)
			sb.WriteString(formatAttr(a))
			sb.WriteByte('\n')
		}
		sb.WriteString(indent)
		sb.WriteString(p.Type)
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
}

func formatAttr(a Attr) string {
	if !a.HasArg {
		return "[" + a.Name + "]"
	}
	return "[" + a.Name + "(\"" + escapeArg(a.Arg) + "\")]"
}

func escapeArg(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
