package wire

// RR describes one resource record parsed from a Cursor step. Offsets
// are absolute within the Cursor's underlying buffer so callers can
// re-slice with Buffer.Substring without re-parsing.
type RR struct {
	NameOffset  int
	Type        uint16
	Class       uint16
	TTL         uint32
	RdataOffset int
	RdataLength int
	NextOffset  int
}

// Name returns the borrowed wire-format owner name bytes.
func (rr RR) Name(b Buffer) ([]byte, error) {
	n, err := b.NameLength(rr.NameOffset)
	if err != nil {
		return nil, err
	}
	return b.Substring(rr.NameOffset, n)
}

// Rdata returns the borrowed rdata bytes.
func (rr RR) Rdata(b Buffer) ([]byte, error) {
	return b.Substring(rr.RdataOffset, rr.RdataLength)
}

// Cursor is a value-typed, restartable iterator over a concatenation of
// RRs in wire format. It carries no state beyond (Data, Offset), so a
// Cursor can be copied, rewound, or reconstructed from a saved offset
// without touching the heap.
type Cursor struct {
	Data   []byte
	Offset int
}

// NewCursor constructs a Cursor positioned at offset within data.
func NewCursor(data []byte, offset int) Cursor {
	return Cursor{Data: data, Offset: offset}
}

// Done reports whether the cursor has consumed the entire buffer.
func (c Cursor) Done() bool {
	return c.Offset >= len(c.Data)
}

// Next parses one RR starting at the cursor's current offset and
// returns it along with a cursor advanced past it. It does not mutate
// c; callers advance by assigning the returned cursor.
func (c Cursor) Next() (RR, Cursor, error) {
	b := Buffer{Data: c.Data}

	nameOffset := c.Offset
	nameLen, err := b.NameLength(nameOffset)
	if err != nil {
		return RR{}, c, err
	}

	offset := nameOffset + nameLen
	dnsType, err := b.ReadU16(offset)
	if err != nil {
		return RR{}, c, err
	}
	offset += 2

	class, err := b.ReadU16(offset)
	if err != nil {
		return RR{}, c, err
	}
	offset += 2

	ttl, err := b.ReadU32(offset)
	if err != nil {
		return RR{}, c, err
	}
	offset += 4

	rdLen, err := b.ReadU16(offset)
	if err != nil {
		return RR{}, c, err
	}
	offset += 2

	rdataOffset := offset
	if err := b.checkBounds(rdataOffset, int(rdLen)); err != nil {
		return RR{}, c, err
	}
	nextOffset := rdataOffset + int(rdLen)

	rr := RR{
		NameOffset:  nameOffset,
		Type:        dnsType,
		Class:       class,
		TTL:         ttl,
		RdataOffset: rdataOffset,
		RdataLength: int(rdLen),
		NextOffset:  nextOffset,
	}
	return rr, Cursor{Data: c.Data, Offset: nextOffset}, nil
}
