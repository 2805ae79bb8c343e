// Package report renders result graphs and schema information for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/objectgraph/internal/schema"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// maxCellWidth bounds free-text columns such as record names.
const maxCellWidth = 40

// Writer renders reports to an output stream.
type Writer struct {
	out   io.Writer
	color bool
}

// New creates a report writer. Colors are emitted only when useColor is set.
func New(out io.Writer, useColor bool) *Writer {
	return &Writer{out: out, color: useColor}
}

func (w *Writer) paint(c color.Color, s string) string {
	if !w.color {
		return s
	}
	return c.Sprint(s)
}

// Header prints a title framed by "=" lines as wide as its display width.
func (w *Writer) Header(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(w.out, strings.Repeat("=", width))
	fmt.Fprintf(w.out, "  %s\n", w.paint(color.Bold, title))
	fmt.Fprintln(w.out, strings.Repeat("=", width))
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	fmt.Fprintf(w.out, "[%s]\n", w.paint(color.Cyan, title))
	fmt.Fprintln(w.out, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// fields prints aligned "label: value" lines.
func (w *Writer) fields(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if lw := runewidth.StringWidth(p[0]); lw > width {
			width = lw
		}
	}
	for _, p := range pairs {
		fmt.Fprintf(w.out, "  %s  %s\n", runewidth.FillRight(p[0]+":", width+1), p[1])
	}
}

// Render writes a result graph in the given format.
func (w *Writer) Render(rg *types.ResultGraph, format string) error {
	switch format {
	case FormatJSON:
		return w.JSON(rg)
	case FormatTable, "":
		w.Graph(rg)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// JSON writes the result graph in the shape served by the HTTP API.
func (w *Writer) JSON(rg *types.ResultGraph) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"output":  rg.Output(),
		"queries": rg.QueryLog,
		"stats":   rg.Stats,
	})
}

// Graph writes the summary, node table, type breakdown and query log.
func (w *Writer) Graph(rg *types.ResultGraph) {
	w.Header("Discovery: %s", rg.Seed)

	fmt.Fprintln(w.out)
	w.Section("Summary")
	limit := "no"
	if rg.Stats.LimitReached {
		limit = w.paint(color.Yellow, "yes")
	}
	w.fields([][2]string{
		{"Strategy", rg.Strategy},
		{"Nodes", strconv.Itoa(rg.Stats.NodesFound)},
		{"Edges", strconv.Itoa(rg.Stats.EdgesFound)},
		{"Lookups", strconv.Itoa(rg.Stats.Lookups)},
		{"Dangling refs", strconv.Itoa(rg.Stats.DanglingRefs)},
		{"Max depth", strconv.Itoa(rg.Stats.MaxDepth)},
		{"Limit reached", limit},
		{"Duration", rg.Stats.Duration.String()},
	})

	fmt.Fprintln(w.out)
	w.Section("Nodes")
	w.nodeTable(rg.Nodes)

	if len(rg.Stats.Types) > 0 {
		fmt.Fprintln(w.out)
		w.Section("Types")
		w.typeTable(rg.Stats.Types)
	}

	fmt.Fprintln(w.out)
	w.Section("Queries")
	for _, q := range rg.QueryLog {
		fmt.Fprintf(w.out, "  %s\n", q)
	}
}

func (w *Writer) nodeTable(nodes []*types.Node) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "ID", "Name", "Status", "Layer", "Pointers From"})

	for _, n := range nodes {
		t.AppendRow(table.Row{
			n.Index,
			n.Type,
			n.ID,
			truncate(optional(n.Name)),
			optional(n.Status),
			n.Layer,
			joinInts(n.PointersFrom),
		})
	}
	t.Render()
}

func (w *Writer) typeTable(counts []types.TypeCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Count", "% of Total", "% of Type"})

	for _, tc := range counts {
		t.AppendRow(table.Row{tc.Type, tc.Count, fmt.Sprintf("%.1f", tc.Percent), ""})
		for _, sub := range tc.Subtypes {
			t.AppendRow(table.Row{
				"  " + sub.TypeFull,
				sub.Count,
				fmt.Sprintf("%.1f", sub.Percent),
				fmt.Sprintf("%.1f", sub.PercentOfType),
			})
		}
	}
	t.Render()
}

// Schema writes the declared type edges.
func (w *Writer) Schema(g *schema.Graph) {
	w.Header("Schema: %d types, %d edges", len(g.Types()), g.EdgeCount())

	fmt.Fprintln(w.out)
	w.Section("Edges")
	for _, e := range g.Edges() {
		fmt.Fprintf(w.out, "  • %s → %s\n", e.From, e.To)
	}

	fmt.Fprintln(w.out)
	w.Section("Types")
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Points To", "Pointed To By"})
	for _, typ := range g.Types() {
		t.AppendRow(table.Row{
			typ,
			strings.Join(g.PointsTo(typ), ", "),
			strings.Join(g.PointedToBy(typ), ", "),
		})
	}
	t.Render()
}

// Types writes a list of record types, marking those the schema declares.
func (w *Writer) Types(tables []string, g *schema.Graph) {
	w.Section("Record Types")
	for _, name := range tables {
		mark := " "
		if g != nil && g.HasType(name) {
			mark = w.paint(color.Green, "✓")
		}
		fmt.Fprintf(w.out, "  %s %s\n", mark, name)
	}
	fmt.Fprintf(w.out, "(%d types)\n", len(tables))
}

// Object writes one stored document as indented JSON.
func (w *Writer) Object(key types.NodeKey, doc map[string]interface{}) error {
	w.Header("Object: %s", key)
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func truncate(s string) string {
	return runewidth.Truncate(s, maxCellWidth, "…")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
