package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/artpar/judegen/core/emit"
)

// TableFormatter writes a human-readable summary of a bundle as aligned
// text tables, one per object, enum, bitmask and database.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text tables"
}

// Extension returns the file extension.
func (f *TableFormatter) Extension() string {
	return "txt"
}

// FormatBundle writes a summary of b.
func (f *TableFormatter) FormatBundle(w io.Writer, b *emit.Bundle, opts FormatOptions) error {
	fmt.Fprintf(w, "Schema %s\n", b.Schema)
	if len(b.Imports) > 0 {
		fmt.Fprintf(w, "Imports: %s\n", strings.Join(b.Imports, ", "))
	}

	for _, c := range b.Constants {
		fmt.Fprintf(w, "Constant %s = %s\n", c.Name, c.Value)
	}

	for _, e := range b.Enums {
		if err := f.values(w, "Enum", e, opts); err != nil {
			return err
		}
	}
	for _, e := range b.Bitmasks {
		if err := f.values(w, "Bitmask", e, opts); err != nil {
			return err
		}
	}

	for _, o := range b.Objects {
		if err := f.object(w, o, opts); err != nil {
			return err
		}
	}

	for _, d := range b.Databases {
		if err := f.database(w, d, opts); err != nil {
			return err
		}
	}
	return nil
}

// FormatError writes the error on one line.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Error: %v\n", err)
	return werr
}

func (f *TableFormatter) object(w io.Writer, o emit.ObjectDescriptor, opts FormatOptions) error {
	fmt.Fprintf(w, "\nObject %s (%s, %d bytes, %d fields)\n", o.Name, o.StructName, o.StorageSize, o.TotalFieldCount)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "INDEX\tTAG\tNAME\tTYPE\tVARIANT\tOFFSET\tDATA_OFFSET\tSIZE\tBOUND\tREAD\tWRITE\tFLAGS")
	}
	for _, fd := range o.Fields {
		fmt.Fprintln(tw, strings.Join([]string{
			strconv.Itoa(fd.Index),
			strconv.Itoa(fd.Tag),
			fd.Name,
			typeLabel(fd),
			fd.Variant.String(),
			strconv.Itoa(fd.Offset),
			strconv.Itoa(fd.DataOffset),
			strconv.Itoa(fd.DataSize),
			strconv.Itoa(fd.ArrayBound),
			fd.ReadLevel.String(),
			fd.WriteLevel.String(),
			flags(fd),
		}, "\t"))
	}
	return tw.Flush()
}

func (f *TableFormatter) values(w io.Writer, kind string, e emit.EnumDescriptor, opts FormatOptions) error {
	fmt.Fprintf(w, "\n%s %s\n", kind, e.Name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "SYMBOL\tVALUE\tDESCRIPTION")
	}
	for _, v := range e.Values {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", v.Symbol, v.Value, v.Description)
	}
	return tw.Flush()
}

func (f *TableFormatter) database(w io.Writer, d emit.DatabaseDescriptor, opts FormatOptions) error {
	fmt.Fprintf(w, "\nDatabase %s\n", d.Name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "NAME\tKIND\tTYPE\tBOUND\tCREATE\tREAD\tUPDATE\tDELETE")
	}
	for _, e := range d.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.Name, e.Kind, e.BackingType, e.Bound, e.Create, e.Read, e.Update, e.Delete)
	}
	return tw.Flush()
}

func typeLabel(fd emit.FieldDescriptor) string {
	if fd.MaxSize > 0 {
		return fd.TypeName + ":" + strconv.Itoa(fd.MaxSize)
	}
	return fd.TypeName
}

func flags(fd emit.FieldDescriptor) string {
	var out []string
	if fd.Persist {
		out = append(out, "persist")
	}
	if fd.AlwaysNotify {
		out = append(out, "notify")
	}
	if fd.IsAction {
		out = append(out, "action")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}

func init() {
	if err := Register(NewTableFormatter()); err != nil {
		fmt.Printf("failed to register table formatter: %v\n", err)
	}
}
