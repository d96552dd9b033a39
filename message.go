package sml

/*
message.go implements the §4.6 Message envelope and its nested body
schemas: Public Open Req/Res, Public Close Req/Res, Get List Req/Res,
the Time/Status/Value choices used inside a Get List Res's value list,
and the reserved-but-unsupported body tags named in §9.

Each body schema exposes its fields as plain named struct fields (the
same pattern Message itself uses for its six envelope fields) and
rebuilds a *FixedSequence wiring those fields' addresses on every
Encode/Decode call, so callers read and set values the ordinary Go way
instead of through a string-keyed lookup.
*/

// Message body tags (§4.6, §6).
const (
	TagPublicOpenReq  uint16 = 0x0100
	TagPublicOpenRes  uint16 = 0x0101
	TagPublicCloseReq uint16 = 0x0200
	TagPublicCloseRes uint16 = 0x0201
	TagGetListReq     uint16 = 0x0700
	TagGetListRes     uint16 = 0x0701

	// Reserved tags, stubbed per §9: decoding one of these yields an
	// UnsupportedBody placeholder rather than UnknownChoiceTag, while
	// any tag outside this full set still fails UnknownChoiceTag.
	TagGetProfilePackReq   uint16 = 0x0300
	TagGetProfilePackRes   uint16 = 0x0301
	TagGetProfileListReq   uint16 = 0x0400
	TagGetProfileListRes   uint16 = 0x0401
	TagGetProcParameterReq uint16 = 0x0500
	TagGetProcParameterRes uint16 = 0x0501
	TagSetProcParameterReq uint16 = 0x0600
	TagSetProcParameterRes uint16 = 0x0601
	TagAttentionRes        uint16 = 0xFF01
)

// Time tags (§6): secondsIndex and timestamp, both U32 payload.
const (
	TagSecondsIndex uint16 = 0x01
	TagTimestamp    uint16 = 0x02
)

// UnsupportedBody is a placeholder Element for message body tags that
// are recognized (named in §6/§9) but not yet given a concrete schema.
// It stores only the raw bytes of its encoded form so that decoding a
// telegram carrying one of these tags does not fail outright.
type UnsupportedBody struct {
	Raw []byte
}

func (r UnsupportedBody) Encode() []byte { return append([]byte(nil), r.Raw...) }

func (r *UnsupportedBody) Decode(buf []byte) (int, error) {
	class, length, lastIdx, absent, err := decodeTL(buf)
	if err != nil {
		return 0, err
	}
	if absent {
		r.Raw = []byte{absentByte}
		return 1, nil
	}
	if class != classSequence {
		if length > len(buf) {
			return 0, ErrMalformedTL
		}
		r.Raw = append([]byte{}, buf[:length]...)
		return length, nil
	}
	// length is an element count here, not a byte count, and there is
	// no concrete schema to size each field against. Walk the children
	// generically via ImplicitChoice's type-dispatch-on-next-TL so only
	// the bytes genuinely belonging to this Sequence are consumed,
	// leaving the enclosing Message's Crc/EndOfMessage untouched.
	offset := lastIdx + 1
	for i := 0; i < length; i++ {
		if offset > len(buf) {
			return 0, ErrMalformedTL
		}
		child := &ImplicitChoice{}
		n, err := child.Decode(buf[offset:])
		if err != nil {
			return 0, err
		}
		offset += n
	}
	r.Raw = append([]byte{}, buf[:offset]...)
	return offset, nil
}

// NewTime returns the explicit Choice used for ActSensorTime,
// ActGatewayTime and RefTime/ValTime fields (§6).
func NewTime() ExplicitChoice {
	return NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
		TagTimestamp:    func() Element { return &Integer{Width: 4, Signed: false} },
	})
}

// PublicOpenReq is the SML PublicOpen.Req body schema (§4.6).
type PublicOpenReq struct {
	CodePage   OctetString
	ClientId   OctetString
	ReqFileId  OctetString
	ServerId   OctetString
	Username   OctetString
	Password   OctetString
	SmlVersion Integer

	seq *FixedSequence
}

func NewPublicOpenReq() *PublicOpenReq {
	r := &PublicOpenReq{
		CodePage:   OctetString{Absent: true},
		ClientId:   OctetString{Absent: true},
		ReqFileId:  OctetString{Absent: true},
		ServerId:   OctetString{Absent: true},
		Username:   OctetString{Absent: true},
		Password:   OctetString{Absent: true},
		SmlVersion: Integer{Width: 1, Signed: false},
	}
	r.bind()
	return r
}

func (r *PublicOpenReq) bind() {
	r.seq = NewFixedSequence(
		field{"CodePage", &r.CodePage},
		field{"ClientId", &r.ClientId},
		field{"ReqFileId", &r.ReqFileId},
		field{"ServerId", &r.ServerId},
		field{"Username", &r.Username},
		field{"Password", &r.Password},
		field{"SmlVersion", &r.SmlVersion},
	)
}

func (r *PublicOpenReq) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *PublicOpenReq) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// PublicOpenRes is the SML PublicOpen.Res body schema (§4.6).
type PublicOpenRes struct {
	CodePage   OctetString
	ClientId   OctetString
	ReqFileId  OctetString
	ServerId   OctetString
	RefTime    ExplicitChoice
	SmlVersion Integer

	seq *FixedSequence
}

func NewPublicOpenRes() *PublicOpenRes {
	r := &PublicOpenRes{
		CodePage:   OctetString{Absent: true},
		ClientId:   OctetString{Absent: true},
		ReqFileId:  OctetString{Absent: true},
		ServerId:   OctetString{Absent: true},
		RefTime:    NewTime(),
		SmlVersion: Integer{Width: 1, Signed: false},
	}
	r.bind()
	return r
}

func (r *PublicOpenRes) bind() {
	r.seq = NewFixedSequence(
		field{"CodePage", &r.CodePage},
		field{"ClientId", &r.ClientId},
		field{"ReqFileId", &r.ReqFileId},
		field{"ServerId", &r.ServerId},
		field{"RefTime", &r.RefTime},
		field{"SmlVersion", &r.SmlVersion},
	)
}

func (r *PublicOpenRes) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *PublicOpenRes) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// PublicCloseReq is the SML PublicClose.Req body schema (§4.6).
type PublicCloseReq struct {
	GlobalSignature OctetString

	seq *FixedSequence
}

func NewPublicCloseReq() *PublicCloseReq {
	r := &PublicCloseReq{GlobalSignature: OctetString{Absent: true}}
	r.bind()
	return r
}

func (r *PublicCloseReq) bind() {
	r.seq = NewFixedSequence(field{"GlobalSignature", &r.GlobalSignature})
}

func (r *PublicCloseReq) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *PublicCloseReq) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// PublicCloseRes is the SML PublicClose.Res body schema (§4.6).
type PublicCloseRes struct {
	GlobalSignature OctetString

	seq *FixedSequence
}

func NewPublicCloseRes() *PublicCloseRes {
	r := &PublicCloseRes{GlobalSignature: OctetString{Absent: true}}
	r.bind()
	return r
}

func (r *PublicCloseRes) bind() {
	r.seq = NewFixedSequence(field{"GlobalSignature", &r.GlobalSignature})
}

func (r *PublicCloseRes) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *PublicCloseRes) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// GetListReq is the SML GetList.Req body schema (§4.6).
type GetListReq struct {
	ClientId OctetString
	ServerId OctetString
	Username OctetString
	Password OctetString
	ListName OctetString

	seq *FixedSequence
}

func NewGetListReq() *GetListReq {
	r := &GetListReq{
		ClientId: OctetString{Absent: true},
		ServerId: OctetString{Absent: true},
		Username: OctetString{Absent: true},
		Password: OctetString{Absent: true},
		ListName: OctetString{Absent: true},
	}
	r.bind()
	return r
}

func (r *GetListReq) bind() {
	r.seq = NewFixedSequence(
		field{"ClientId", &r.ClientId},
		field{"ServerId", &r.ServerId},
		field{"Username", &r.Username},
		field{"Password", &r.Password},
		field{"ListName", &r.ListName},
	)
}

func (r *GetListReq) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *GetListReq) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// ValueEntry is one entry of a Get List Res's ValList (§4.6).
type ValueEntry struct {
	ObjName        OctetString
	Status         ImplicitChoice
	ValTime        ExplicitChoice
	Unit           Integer
	Scaler         Integer
	Value          ImplicitChoice
	ValueSignature OctetString

	seq *FixedSequence
}

func NewValueEntry() *ValueEntry {
	r := &ValueEntry{
		ObjName:        OctetString{Absent: true},
		ValTime:        NewTime(),
		Unit:           Integer{Width: 1, Signed: false},
		Scaler:         Integer{Width: 1, Signed: true},
		ValueSignature: OctetString{Absent: true},
	}
	r.bind()
	return r
}

func (r *ValueEntry) bind() {
	r.seq = NewFixedSequence(
		field{"ObjName", &r.ObjName},
		field{"Status", &r.Status},
		field{"ValTime", &r.ValTime},
		field{"Unit", &r.Unit},
		field{"Scaler", &r.Scaler},
		field{"Value", &r.Value},
		field{"ValueSignature", &r.ValueSignature},
	)
}

func (r *ValueEntry) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *ValueEntry) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// GetListRes is the SML GetList.Res body schema (§4.6).
type GetListRes struct {
	ClientId       OctetString
	ServerId       OctetString
	ListName       OctetString
	ActSensorTime  ExplicitChoice
	ValList        ListSequence
	ListSignature  OctetString
	ActGatewayTime ExplicitChoice

	seq *FixedSequence
}

func NewGetListRes() *GetListRes {
	r := &GetListRes{
		ClientId:       OctetString{Absent: true},
		ServerId:       OctetString{Absent: true},
		ListName:       OctetString{Absent: true},
		ActSensorTime:  NewTime(),
		ValList:        ListSequence{Prototype: func() Element { return NewValueEntry() }},
		ListSignature:  OctetString{Absent: true},
		ActGatewayTime: NewTime(),
	}
	r.bind()
	return r
}

func (r *GetListRes) bind() {
	r.seq = NewFixedSequence(
		field{"ClientId", &r.ClientId},
		field{"ServerId", &r.ServerId},
		field{"ListName", &r.ListName},
		field{"ActSensorTime", &r.ActSensorTime},
		field{"ValList", &r.ValList},
		field{"ListSignature", &r.ListSignature},
		field{"ActGatewayTime", &r.ActGatewayTime},
	)
}

func (r *GetListRes) Encode() []byte { r.bind(); return r.seq.Encode() }

func (r *GetListRes) Decode(buf []byte) (int, error) { r.bind(); return r.seq.Decode(buf) }

// messageBodyPrototypes is the explicit Choice tag map for a Message's
// MessageBody field (§4.6, §9).
func messageBodyPrototypes() map[uint16]func() Element {
	return map[uint16]func() Element{
		TagPublicOpenReq:  func() Element { return NewPublicOpenReq() },
		TagPublicOpenRes:  func() Element { return NewPublicOpenRes() },
		TagPublicCloseReq: func() Element { return NewPublicCloseReq() },
		TagPublicCloseRes: func() Element { return NewPublicCloseRes() },
		TagGetListReq:     func() Element { return NewGetListReq() },
		TagGetListRes:     func() Element { return NewGetListRes() },

		TagGetProfilePackReq:   func() Element { return &UnsupportedBody{} },
		TagGetProfilePackRes:   func() Element { return &UnsupportedBody{} },
		TagGetProfileListReq:   func() Element { return &UnsupportedBody{} },
		TagGetProfileListRes:   func() Element { return &UnsupportedBody{} },
		TagGetProcParameterReq: func() Element { return &UnsupportedBody{} },
		TagGetProcParameterRes: func() Element { return &UnsupportedBody{} },
		TagSetProcParameterReq: func() Element { return &UnsupportedBody{} },
		TagSetProcParameterRes: func() Element { return &UnsupportedBody{} },
		TagAttentionRes:        func() Element { return &UnsupportedBody{} },
	}
}

// Message implements the six-field Message envelope of §4.6:
// TransactionId, GroupNo, AbortOnError, MessageBody (an explicit
// Choice), Crc and EndOfMessage.
//
// Decode only populates Width/Signed/Prototypes correctly for an
// instance obtained from NewMessage; decoding into a bare &Message{}
// leaves the envelope's Integer widths and the Body's tag map zeroed.
type Message struct {
	TransactionId OctetString
	GroupNo       Integer
	AbortOnError  Integer
	Body          ExplicitChoice
	Crc           Integer
	EOM           EndOfMessage

	seq *FixedSequence
}

// NewMessage returns an empty Message ready to be populated and
// encoded, or decoded into.
func NewMessage() *Message {
	m := &Message{
		GroupNo:      Integer{Width: 1, Signed: false},
		AbortOnError: Integer{Width: 1, Signed: false},
		Body:         NewExplicitChoice(2, messageBodyPrototypes()),
		Crc:          Integer{Width: 2, Signed: false},
	}
	m.bind()
	return m
}

func (m *Message) bind() {
	m.seq = NewFixedSequence(
		field{"TransactionId", &m.TransactionId},
		field{"GroupNo", &m.GroupNo},
		field{"AbortOnError", &m.AbortOnError},
		field{"MessageBody", &m.Body},
		field{"Crc", &m.Crc},
		field{"EndOfMessage", &m.EOM},
	)
}

// SetBody selects tag as the message's body tag and elem as its
// decoded/constructed content.
func (m *Message) SetBody(tag uint16, elem Element) error {
	return m.Body.Select(tag, elem)
}

// Encode serializes the receiver, computing and installing a fresh Crc
// value over the serialized body that precedes it (§3's Message
// invariant).
func (m *Message) Encode() []byte {
	m.bind()
	// Encode with a placeholder CRC first so the checksum is computed
	// over the real serialized bytes, then patch it in.
	m.Crc.Value = 0
	raw := m.seq.Encode()
	crcRegion := raw[:len(raw)-4] // exclude Crc TL+payload (3 bytes) and EOM (1 byte)
	m.Crc.Value = int64(crc16Int(crcRegion))
	m.bind()
	return m.seq.Encode()
}

// Decode consumes a Message from buf and verifies its stored Crc
// against the recomputed checksum over the consumed bytes excluding
// the trailing Crc TL+payload and EOM byte (§4.6).
func (m *Message) Decode(buf []byte) (int, error) {
	m.bind()
	n, err := m.seq.Decode(buf)
	if err != nil {
		return 0, err
	}
	if n < 4 {
		return 0, ErrMalformedTL
	}
	want := uint16(m.Crc.Value)
	got := crc16Int(buf[:n-4])
	if want != got {
		return 0, &ChecksumMismatch{Scope: "message", Want: want, Got: got}
	}
	return n, nil
}
