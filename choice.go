package sml

/*
choice.go implements the two CHOICE flavors of §4.4: an explicit
Choice stores a tag element plus a tag-to-prototype mapping and wraps
its chosen element in a length-2 Sequence TL; an implicit Choice
stores no tag and instead infers the decoded variant from the next TL
header. Both expose the currently selected Element through a field
named "Element" on whichever struct embeds them, matching the access
pattern described in §4.4.

Per §5 and §9, an explicit Choice's tag-to-prototype map is schema
metadata: decoding never mutates a stored prototype in place. Each
successful tag dispatch calls the registered constructor to obtain a
fresh Element, so two decodes of the same tag never alias state.
*/

// ExplicitChoice implements the explicit CHOICE flavor: a tag element
// (an Unsigned Integer of TagWidth bytes) followed by the element
// selected by that tag. Prototypes maps a tag value to a constructor
// that returns a fresh, independent Element for that tag.
//
// A nil Element means the choice is unselected/absent (§4.6's Time
// fields are routinely absent): Encode emits the 0x01 sentinel and
// Decode of that sentinel leaves Element nil rather than dispatching
// a tag.
type ExplicitChoice struct {
	TagWidth   int
	Prototypes map[uint16]func() Element

	Tag     uint16
	Element Element
}

func NewExplicitChoice(tagWidth int, prototypes map[uint16]func() Element) ExplicitChoice {
	return ExplicitChoice{TagWidth: tagWidth, Prototypes: prototypes}
}

// Select assigns the tag and element to encode, validating the tag is
// registered in Prototypes.
func (r *ExplicitChoice) Select(tag uint16, elem Element) error {
	if _, ok := r.Prototypes[tag]; !ok {
		return &UnknownChoiceTag{Tag: tag}
	}
	r.Tag = tag
	r.Element = elem
	return nil
}

func (r ExplicitChoice) Encode() []byte {
	if r.Element == nil {
		return []byte{absentByte}
	}
	tag := Integer{Width: r.TagWidth, Signed: false, Value: int64(r.Tag)}
	body := append(tag.Encode(), r.Element.Encode()...)
	return append(encodeTL(classSequence, 2), body...)
}

func (r *ExplicitChoice) Decode(buf []byte) (int, error) {
	class, length, lastIdx, absent, err := decodeTL(buf)
	if err != nil {
		return 0, err
	}
	if absent {
		r.Tag = 0
		r.Element = nil
		return 1, nil
	}
	if class != classSequence || length != 2 {
		return 0, ErrMalformedTL
	}
	offset := lastIdx + 1

	tag := Integer{Width: r.TagWidth, Signed: false}
	n, err := tag.Decode(buf[offset:])
	if err != nil {
		return 0, err
	}
	offset += n
	r.Tag = uint16(tag.Value)

	ctor, ok := r.Prototypes[r.Tag]
	if !ok {
		return 0, &UnknownChoiceTag{Tag: r.Tag}
	}
	elem := ctor()
	n2, err := elem.Decode(buf[offset:])
	if err != nil {
		return 0, err
	}
	offset += n2
	r.Element = elem
	return offset, nil
}

// ImplicitChoice implements the implicit CHOICE flavor: no tag is
// stored; encode delegates directly to the selected Element, and
// decode peeks the next TL to determine which primitive or Sequence
// variant to instantiate (§4.4).
//
// A decoded 0x01 ("absent") leaves Element nil: the implicit slot
// itself carries no type information in that state, matching the
// original implementation's handling of an absent choice value.
type ImplicitChoice struct {
	Element Element
}

func (r ImplicitChoice) Encode() []byte {
	if r.Element == nil {
		return []byte{absentByte}
	}
	return r.Element.Encode()
}

func (r *ImplicitChoice) Decode(buf []byte) (int, error) {
	class, length, lastIdx, absent, err := decodeTL(buf)
	if err != nil {
		return 0, err
	}
	if absent {
		r.Element = nil
		return 1, nil
	}
	payloadLen := length - (lastIdx + 1)

	var elem Element
	switch class {
	case classOctetString:
		elem = &OctetString{}
	case classBoolean:
		elem = &Boolean{}
	case classSignedInt:
		elem = newImplicitInt(true, payloadLen)
	case classUnsignedInt:
		elem = newImplicitInt(false, payloadLen)
	case classSequence:
		elem = &ListSequence{Prototype: func() Element { return &ImplicitChoice{} }}
	default:
		return 0, ErrTypeMismatch
	}

	n, err := elem.Decode(buf)
	if err != nil {
		return 0, err
	}
	r.Element = elem
	return n, nil
}

// newImplicitInt picks the fixed-width Integer variant matching the
// payload width implied by a decoded TL header, falling back to the
// width-flexible variant for any other width. This mirrors §4.4's
// 1->08, 2->16, 4->32, 8->64 mapping.
//
// The original Python implementation of this dispatch referenced a
// misspelled constructor name for the 08 case; this codec uses the
// correctly spelled Unsigned Integer 08 variant (see regression test
// TestImplicitChoice_UnsignedInteger08Typo).
func newImplicitInt(signed bool, payloadLen int) Element {
	switch payloadLen {
	case 1:
		return &Integer{Width: 1, Signed: signed}
	case 2:
		return &Integer{Width: 2, Signed: signed}
	case 4:
		return &Integer{Width: 4, Signed: signed}
	case 8:
		return &Integer{Width: 8, Signed: signed}
	default:
		return &Integer{Width: 0, Signed: signed}
	}
}
