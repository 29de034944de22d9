// Package sheet converts recognized table markup into xlsx workbooks.
package sheet

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cell is one table cell placed on the grid. Row and Col are zero based.
type Cell struct {
	Row, Col         int
	RowSpan, ColSpan int
	Text             string
	Header           bool
}

// Table is a parsed table laid out on a grid, spans resolved.
type Table struct {
	Cells []Cell
	Rows  int
	Cols  int
}

// markupPolicy keeps table structure and span attributes only. Engine output
// occasionally carries styling or stray tags that would otherwise leak into
// cell text.
func markupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("table", "caption", "thead", "tbody", "tfoot", "tr", "td", "th", "br")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	return p
}

// maxSpanArea bounds the summed rowspan*colspan of a table. Cells past the
// budget are laid out unspanned.
const maxSpanArea = 1 << 16

// Parse reads the first table found in markup.
func Parse(markup string) (*Table, error) {
	clean := markupPolicy().Sanitize(markup)

	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return nil, sheetErrors.NewWithCause(ErrParse, err)
	}

	root := findFirst(doc, atom.Table)
	if root == nil {
		return nil, sheetErrors.New(ErrNoTable)
	}

	t := &Table{}
	occupied := map[[2]int]bool{}
	budget := maxSpanArea
	rows := rowsOf(root)
	row := 0
	for _, tr := range rows {
		col := 0
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
				continue
			}
			for occupied[[2]int{row, col}] {
				col++
			}
			cell := Cell{
				Row:     row,
				Col:     col,
				RowSpan: spanAttr(c, "rowspan"),
				ColSpan: spanAttr(c, "colspan"),
				Text:    cellText(c),
				Header:  c.DataAtom == atom.Th,
			}
			cell.RowSpan = min(cell.RowSpan, len(rows)-row)
			if area := cell.RowSpan * cell.ColSpan; area > budget {
				cell.RowSpan, cell.ColSpan = 1, 1
			} else {
				budget -= area
			}
			for r := row + 1; r < row+cell.RowSpan; r++ {
				for k := col; k < col+cell.ColSpan; k++ {
					occupied[[2]int{r, k}] = true
				}
			}
			t.Cells = append(t.Cells, cell)
			col += cell.ColSpan
			t.Cols = max(t.Cols, col)
			t.Rows = max(t.Rows, row+cell.RowSpan)
		}
		row++
	}

	if len(t.Cells) == 0 {
		return nil, sheetErrors.New(ErrNoTable)
	}
	return t, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// rowsOf returns the rows of table in document order, skipping rows of
// nested tables.
func rowsOf(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func spanAttr(n *html.Node, name string) int {
	for _, a := range n.Attr {
		if a.Key != name {
			continue
		}
		v := 0
		for _, ch := range strings.TrimSpace(a.Val) {
			if ch < '0' || ch > '9' {
				return 1
			}
			v = v*10 + int(ch-'0')
			if v > 1000 {
				return 1
			}
		}
		return max(v, 1)
	}
	return 1
}

func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
