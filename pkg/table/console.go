package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// ConsoleSink prints the table as aligned columns under a title
type ConsoleSink struct {
	Out   io.Writer
	Title string
}

// Replace prints rows
func (c *ConsoleSink) Replace(rows []Row) error {
	if c.Title != "" {
		fmt.Fprintln(c.Out, c.Title)
		fmt.Fprintln(c.Out, strings.Repeat("=", len(c.Title)))
	}
	w := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(Columns, "\t"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Family, r.FeatureName, r.Value)
	}
	return w.Flush()
}
