package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	warn  = color.New(color.FgYellow)
	hit   = color.New(color.Bold, color.FgHiRed)
	del   = color.New(color.FgRed, color.Underline)
	ins   = color.New(color.FgGreen, color.Underline)
)

func newTable(headers ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for i, h := range headers {
		headers[i] = bold.Sprint(h)
	}
	tbl.AddRow(headers...)
	return tbl
}

// highlight marks runes [from, to) of line.
func highlight(line string, from, to int) string {
	r := []rune(line)
	from = min(max(from, 0), len(r))
	to = min(max(to, from), len(r))
	return string(r[:from]) + hit.Sprint(string(r[from:to])) + string(r[to:])
}

// writeDiff prints the lines that differ between before and after, with
// the changed characters underlined.
func writeDiff(w io.Writer, before, after string) int {
	if before == after {
		_, _ = faint.Fprintln(w, "no changes")
		return 0
	}
	bLines := strings.Split(before, "\n")
	aLines := strings.Split(after, "\n")
	if len(bLines) != len(aLines) {
		writeBlock(w, before, after)
		return 1
	}

	changed := 0
	d := dmp.New()
	for i := range bLines {
		if bLines[i] == aLines[i] {
			continue
		}
		changed++
		diffs := d.DiffCleanupSemantic(d.DiffMain(bLines[i], aLines[i], false))
		var old, cur strings.Builder
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffDelete:
				old.WriteString(del.Sprint(df.Text))
			case dmp.DiffInsert:
				cur.WriteString(ins.Sprint(df.Text))
			case dmp.DiffEqual:
				old.WriteString(df.Text)
				cur.WriteString(df.Text)
			}
		}
		_, _ = fmt.Fprintf(w, "%s %d\n", faint.Sprint("@@ line"), i+1)
		_, _ = fmt.Fprintf(w, "- %s\n+ %s\n", old.String(), cur.String())
	}
	return changed
}

func writeBlock(w io.Writer, before, after string) {
	d := dmp.New()
	diffs := d.DiffCleanupSemantic(d.DiffMain(before, after, false))
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffDelete:
			_, _ = del.Fprint(w, df.Text)
		case dmp.DiffInsert:
			_, _ = ins.Fprint(w, df.Text)
		case dmp.DiffEqual:
			_, _ = fmt.Fprint(w, df.Text)
		}
	}
	_, _ = fmt.Fprintln(w)
}
