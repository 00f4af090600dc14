package symbol

import (
	"fmt"
	"strings"
)

// Format renders a symbol's signature text for hover, completion, and
// signature help.
func Format(sym Symbol) string {
	switch sym.Kind {
	case KindType, KindKeyword:
		return sym.Label
	case KindVariable:
		return sym.Type + " " + sym.Label
	case KindFunction:
		if len(sym.Signatures) == 0 {
			return sym.Label + "()"
		}
		return FormatSignature(sym.Signatures[0], sym.Label)
	case KindConstant:
		return sym.Qualifier + " " + sym.Type + " " + sym.Label + " = " + sym.Value + ";"
	case KindLink:
		return fmt.Sprintf("%q:%d:%d", sym.Label, sym.Target.Line, sym.Target.Column)
	default:
		return sym.Label
	}
}

// DocLink renders sym's documentation link as a markdown link, or ""
// if it has none.
func DocLink(sym Symbol) string {
	if sym.DocLink == "" {
		return ""
	}
	return fmt.Sprintf("[%s](%s)", sym.Label, sym.DocLink)
}

// FormatSignature renders "{returnType} {label}({type0 p0}, {type1 p1}, …)".
func FormatSignature(sig Signature, label string) string {
	params := make([]string, 0, len(sig.Parameters))
	for _, p := range sig.Parameters {
		if p.Type == "" {
			params = append(params, p.Label)
		} else {
			params = append(params, p.Type+" "+p.Label)
		}
	}
	return sig.ReturnType + " " + label + "(" + strings.Join(params, ", ") + ")"
}
