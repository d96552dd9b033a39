package sml

/*
sequence.go implements the two SEQUENCE flavors of §4.5: a fixed
schema sequence holding an ordered list of named fields, and a
homogeneous list sequence holding repeated instances of a single
prototype element. Both encode as TL(Sequence, N) followed by the
concatenated child encodings, where N is the field count (fixed) or
current element count (list) -- never a byte count, unlike every other
TL-bearing type (§3's invariants).
*/

// field is one named slot of a FixedSequence.
type field struct {
	Name string
	Elem Element
}

// FixedSequence implements the fixed-schema SEQUENCE flavor: an
// ordered, named set of child elements decoded and encoded in
// declaration order.
type FixedSequence struct {
	fields []field
	lut    map[string]int
}

// NewFixedSequence builds a FixedSequence from ordered (name, element)
// pairs. Names must be unique within the sequence (§4.5); a duplicate
// name is a programming error and panics, matching the teacher's
// fail-fast posture for schema construction errors.
func NewFixedSequence(fields ...field) *FixedSequence {
	s := &FixedSequence{fields: fields, lut: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.lut[f.Name]; dup {
			panic("sml: duplicate field name " + f.Name)
		}
		s.lut[f.Name] = i
	}
	return s
}

// Field returns the element registered under name, and whether it was found.
func (r *FixedSequence) Field(name string) (Element, bool) {
	i, ok := r.lut[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Elem, true
}

// Len returns the number of fields in the schema.
func (r *FixedSequence) Len() int { return len(r.fields) }

func (r *FixedSequence) Encode() []byte {
	out := encodeTL(classSequence, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f.Elem.Encode()...)
	}
	return out
}

func (r *FixedSequence) Decode(buf []byte) (int, error) {
	class, length, lastIdx, absent, err := decodeTL(buf)
	if err != nil {
		return 0, err
	}
	if absent || class != classSequence {
		return 0, ErrTypeMismatch
	}
	if length != len(r.fields) {
		return 0, mkerrf("sml: sequence declared ", itoa(length), " fields, schema has ", itoa(len(r.fields)))
	}

	offset := lastIdx + 1
	for _, f := range r.fields {
		if offset > len(buf) {
			return 0, ErrMalformedTL
		}
		n, err := f.Elem.Decode(buf[offset:])
		if err != nil {
			return 0, err
		}
		offset += n
	}
	return offset, nil
}

// ListSequence implements the homogeneous "list of" SEQUENCE flavor:
// decode reads a declared element count and performs that many decode
// passes through Prototype, appending a freshly constructed, fully
// independent Element each time so earlier entries never alias a
// later decode (§4.5, §9 "Deep-copy-on-list-element").
type ListSequence struct {
	Prototype func() Element
	Elements  []Element
}

func (r *ListSequence) Encode() []byte {
	out := encodeTL(classSequence, len(r.Elements))
	for _, e := range r.Elements {
		out = append(out, e.Encode()...)
	}
	return out
}

func (r *ListSequence) Decode(buf []byte) (int, error) {
	class, length, lastIdx, absent, err := decodeTL(buf)
	if err != nil {
		return 0, err
	}
	if absent || class != classSequence {
		return 0, ErrTypeMismatch
	}

	offset := lastIdx + 1
	elements := make([]Element, 0, length)
	for i := 0; i < length; i++ {
		if offset > len(buf) {
			return 0, ErrMalformedTL
		}
		e := r.Prototype()
		n, err := e.Decode(buf[offset:])
		if err != nil {
			return 0, err
		}
		offset += n
		elements = append(elements, e)
	}
	r.Elements = elements
	return offset, nil
}
