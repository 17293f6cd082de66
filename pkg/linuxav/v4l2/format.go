package v4l2

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"
)

// FormatFlags are the V4L2_FMT_FLAG_* bits of an enumerated format.
type FormatFlags uint32

// Format flags.
const (
	FmtFlagCompressed FormatFlags = 0x0001
	FmtFlagEmulated   FormatFlags = 0x0002
)

// FormatRecord is a format as enumerated by the device, before validation.
type FormatRecord struct {
	Type        uint32
	PixelFormat uint32
	Description string
	Flags       FormatFlags
}

// Format is one (buffer type, pixel format, description) triple. Formats are
// comparable and equal only when all three fields match.
type Format struct {
	Type        BufType
	FourCC      FourCC
	Description string
}

func (f Format) String() string {
	return f.FourCC.String()
}

// FormatCatalog is the set of formats a device supports, grouped by buffer
// type. It is not modified after construction.
type FormatCatalog struct {
	formats map[Format]FormatFlags
	byType  map[BufType][]Format
}

// NewFormatCatalog validates records and builds the catalog. A record with a
// buffer type outside the known ten fails with ErrUnsupportedBufferType.
func NewFormatCatalog(records []FormatRecord) (*FormatCatalog, error) {
	c := &FormatCatalog{
		formats: make(map[Format]FormatFlags, len(records)),
		byType:  make(map[BufType][]Format),
	}

	for _, r := range records {
		bt := BufType(r.Type)
		if _, err := bt.Name(); err != nil {
			return nil, err
		}

		f := Format{Type: bt, FourCC: FourCC(r.PixelFormat), Description: r.Description}
		if _, dup := c.formats[f]; dup {
			continue
		}
		c.formats[f] = r.Flags
		c.byType[bt] = append(c.byType[bt], f)
	}

	for _, group := range c.byType {
		slices.SortFunc(group, compareFormats)
	}
	return c, nil
}

func compareFormats(a, b Format) int {
	if n := cmp.Compare(a.FourCC.String(), b.FourCC.String()); n != 0 {
		return n
	}
	return cmp.Compare(a.Description, b.Description)
}

// Contains reports whether f is in the catalog.
func (c *FormatCatalog) Contains(f Format) bool {
	_, ok := c.formats[f]
	return ok
}

// Len returns the number of distinct formats.
func (c *FormatCatalog) Len() int {
	return len(c.formats)
}

// All yields every format. Each call starts a fresh pass; order is not
// defined.
func (c *FormatCatalog) All() iter.Seq[Format] {
	return maps.Keys(c.formats)
}

// Types returns the buffer types that have at least one format, ascending.
func (c *FormatCatalog) Types() []BufType {
	return slices.Sorted(maps.Keys(c.byType))
}

// ByType returns the formats of one buffer type sorted by fourcc.
func (c *FormatCatalog) ByType(t BufType) []Format {
	return slices.Clone(c.byType[t])
}

// Flags returns the flags reported for f.
func (c *FormatCatalog) Flags(f Format) FormatFlags {
	return c.formats[f]
}

// String renders one line per buffer type, for example
// "video capture format: MJPG, YUYV".
func (c *FormatCatalog) String() string {
	lines := make([]string, 0, len(c.byType))
	for _, t := range c.Types() {
		group := c.byType[t]
		names := make([]string, len(group))
		for i, f := range group {
			names[i] = f.String()
		}
		lines = append(lines, t.String()+" format: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}
