package emit

import (
	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/resolve"
)

// DefaultPointerSize is the pointer width of the default target.
const DefaultPointerSize = 8

// Header is the runtime header every object struct starts with.
type Header struct {
	// RTTIOffset, ParentOffset and ChildIndexOffset locate the type pointer,
	// the u16 parent offset and the u8 child index.
	RTTIOffset       int `json:"rtti_offset" yaml:"rtti_offset"`
	ParentOffset     int `json:"parent_offset" yaml:"parent_offset"`
	ChildIndexOffset int `json:"child_index_offset" yaml:"child_index_offset"`

	// IDOffset is where the identifier lives.
	IDOffset int `json:"id_offset" yaml:"id_offset"`

	// MaskOffset and MaskSize locate the presence mask: two bits per field.
	MaskOffset int `json:"mask_offset" yaml:"mask_offset"`
	MaskSize   int `json:"mask_size" yaml:"mask_size"`
}

// member is one storage slot of a field.
type member struct {
	offset int
	size   int

	// countOffset is the offset of the element counter of a repeated field.
	countOffset int
	elemSize    int
}

// structLayout is the computed layout of one object.
type structLayout struct {
	header  Header
	members map[string]member
	size    int
	align   int
}

// layouter computes struct layouts, memoised by object key.
type layouter struct {
	pointerSize int
	objects     map[string]*resolve.Object
	bitmasks    map[string]*resolve.Bitmask
	done        map[string]*structLayout
}

func newLayouter(pointerSize int, m *resolve.Model) *layouter {
	if pointerSize <= 0 {
		pointerSize = DefaultPointerSize
	}
	return &layouter{
		pointerSize: pointerSize,
		objects:     m.AllObjects,
		bitmasks:    m.AllBitmasks,
		done:        make(map[string]*structLayout),
	}
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// maskSize is the presence mask size of an object with n fields.
func maskSize(n int) int {
	return (n*2 + 7) / 8
}

// layout returns the layout of obj. Objects must be acyclic, which the
// dependency order guarantees before layout runs.
func (l *layouter) layout(obj *resolve.Object) *structLayout {
	if done, ok := l.done[obj.Key()]; ok {
		return done
	}

	fields := obj.FieldsAndID()
	sl := &structLayout{members: make(map[string]member, len(fields)), align: l.pointerSize}
	if catalog.IDSize > sl.align {
		sl.align = catalog.IDSize
	}

	h := Header{RTTIOffset: 0}
	h.ParentOffset = l.pointerSize
	h.ChildIndexOffset = h.ParentOffset + catalog.CountSize
	h.IDOffset = alignUp(h.ChildIndexOffset+1, catalog.IDSize)
	h.MaskOffset = h.IDOffset + catalog.IDSize
	h.MaskSize = maskSize(len(fields))
	sl.header = h
	sl.members[obj.ID().Name] = member{offset: h.IDOffset, size: catalog.IDSize, elemSize: catalog.IDSize}

	end := h.MaskOffset + h.MaskSize
	for _, f := range obj.OrderedFields() {
		size, align := l.element(f)
		var m member
		if f.Repeated() {
			m.countOffset = alignUp(end, catalog.CountSize)
			end = m.countOffset + catalog.CountSize
		}
		m.offset = alignUp(end, align)
		m.elemSize = size
		m.size = size
		if f.Repeated() {
			m.size = size * f.Bound
		}
		end = m.offset + m.size
		sl.members[f.Name] = m
		if align > sl.align {
			sl.align = align
		}
	}

	sl.size = alignUp(end, sl.align)
	l.done[obj.Key()] = sl
	return sl
}

// element returns the size and alignment of one element of f.
func (l *layouter) element(f resolve.Field) (size, align int) {
	switch f.Category {
	case catalog.String:
		return f.MaxSize, 1
	case catalog.Bytes:
		return alignUp(catalog.CountSize+f.MaxSize, catalog.CountSize), catalog.CountSize
	case catalog.Enum:
		return catalog.EnumSize, catalog.EnumSize
	case catalog.Bitmask:
		n := 1
		if b, ok := l.bitmasks[f.TypeKey]; ok {
			n = b.StorageSize
		}
		return n, n
	case catalog.Object:
		sub := l.layout(l.objects[f.TypeKey])
		return sub.size, sub.align
	default:
		a, _ := catalog.Lookup(f.TypeName)
		return a.Size, a.Align
	}
}
