package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects a snapshot encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. The empty string means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or yaml)", s)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Encode writes v in the given format. v is typically a *Snapshot,
// *GenerationSnapshot, or []NodeRef.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()

	case FormatText, "":
		return encodeText(w, v)

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func encodeText(w io.Writer, v any) error {
	var b strings.Builder
	switch x := v.(type) {
	case *Snapshot:
		writeText(&b, x, 0)
	case *GenerationSnapshot:
		fmt.Fprintf(&b, "# generation %d (%d nodes)\n", x.Generation, x.Nodes)
		writeText(&b, x.Root, 0)
	case []NodeRef:
		for _, ref := range x {
			fmt.Fprintf(&b, "%s#%d\n", ref.Component, ref.Tag)
		}
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeText prints a snapshot as nested tags:
//
//	<Root=r2/sealed tag=1>
//	  <Text=r1/sealed text=hi tag=2/>
//	</Root>
func writeText(b *strings.Builder, s *Snapshot, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(s.Component)
	b.WriteString("=r")
	fmt.Fprint(b, s.Revision)
	if s.Sealed {
		b.WriteString("/sealed")
	}
	for _, p := range s.Props {
		fmt.Fprintf(b, " %s=%s", p.Name, p.Value)
	}
	fmt.Fprintf(b, " tag=%d", s.Tag)

	if len(s.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for _, child := range s.Children {
		writeText(b, child, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(s.Component)
	b.WriteString(">\n")
}
