package resolve

import (
	"github.com/artpar/judegen/core/schema"
)

// reservedTag is never assigned; tags start at 2.
const reservedTag = 1

// allocateTags assigns a tag to every declared field. Explicit tags are
// checked first; the remaining fields take the smallest unused tags from
// {2 .. n+1}, n being the number of non-identifier fields, in declaration
// order. The identifier always gets IDTag.
func allocateTags(fields []*declaredField) error {
	claimed := make(map[int]string)
	var n int

	for _, f := range fields {
		explicit := f.attrs.Tag
		if f.decl.Name == IDField {
			if explicit != nil && *explicit != IDTag {
				return &schema.TagConflictError{
					Location: f.loc,
					Tag:      *explicit,
					Fields:   []string{f.decl.Name},
					Reason:   "cannot be used by the identifier field: it always has tag 1000",
				}
			}
			f.tag = IDTag
			continue
		}

		n++
		if explicit == nil {
			continue
		}
		t := *explicit
		switch {
		case t <= 0:
			return schema.Syntaxf(f.loc, "tag %d should be a number > 0", t)
		case t == reservedTag:
			return &schema.TagConflictError{Location: f.loc, Tag: t, Fields: []string{f.decl.Name}, Reason: "is reserved"}
		case t == IDTag:
			return &schema.TagConflictError{Location: f.loc, Tag: t, Fields: []string{f.decl.Name}, Reason: "is reserved for the identifier field"}
		}
		if other, dup := claimed[t]; dup {
			return &schema.TagConflictError{Location: f.loc, Tag: t, Fields: []string{other, f.decl.Name}}
		}
		claimed[t] = f.decl.Name
		f.tag = t
	}

	next := reservedTag + 1
	for _, f := range fields {
		if f.tag != 0 {
			continue
		}
		for claimed[next] != "" {
			next++
		}
		if next > n+1 {
			// Unreachable: the pool has n tags and at most n fields draw from it.
			return schema.Syntaxf(f.loc, "no tag left for field")
		}
		f.tag = next
		claimed[next] = f.decl.Name
		next++
	}
	return nil
}
