package axmldecode

import (
	"bytes"
	"encoding/binary"
)

// axmlBuilder assembles a minimal binary AndroidManifest.xml chunk stream
// by hand, the same way the teacher's own tests rely on prebuilt ".bin"
// fixtures — except no such fixtures ship in this retrieval, so tests
// build the bytes themselves with encoding/binary.
type axmlBuilder struct {
	strings     []string
	events      []func() []byte
	resourceMap []uint32
}

func newAxmlBuilder() *axmlBuilder { return &axmlBuilder{} }

// str interns s in the builder's string pool and returns its index.
func (b *axmlBuilder) str(s string) uint32 {
	for i, existing := range b.strings {
		if existing == s {
			return uint32(i)
		}
	}
	b.strings = append(b.strings, s)
	return uint32(len(b.strings) - 1)
}

// setResourceMap installs the ids an XML_RESOURCE_MAP chunk carries,
// emitted right after the string pool, same as a real compiled manifest.
func (b *axmlBuilder) setResourceMap(ids ...uint32) {
	b.resourceMap = ids
}

func (b *axmlBuilder) startNamespace(prefix, uri string) {
	p, u := b.str(prefix), b.str(uri)
	b.events = append(b.events, func() []byte { return xmlNodeChunk(ChunkXMLStartNamespace, u32le(p), u32le(u)) })
}

func (b *axmlBuilder) endNamespace(prefix, uri string) {
	p, u := b.str(prefix), b.str(uri)
	b.events = append(b.events, func() []byte { return xmlNodeChunk(ChunkXMLEndNamespace, u32le(p), u32le(u)) })
}

type axmlAttr struct {
	NS, Name string
	RawValue string // used only when HasRaw is set
	HasRaw   bool
	DataType ResType
	Data     uint32
}

func (b *axmlBuilder) startElement(ns, name string, attrs []axmlAttr) {
	nsIdx := uint32(noStringIdx)
	if ns != "" {
		nsIdx = b.str(ns)
	}
	nameIdx := b.str(name)

	type resolvedAttr struct {
		ns, name uint32
		raw      uint32
		dataType ResType
		data     uint32
	}
	resolved := make([]resolvedAttr, len(attrs))
	for i, a := range attrs {
		r := resolvedAttr{dataType: a.DataType, data: a.Data}
		if a.NS != "" {
			r.ns = b.str(a.NS)
		} else {
			r.ns = noStringIdx
		}
		r.name = b.str(a.Name)
		if a.HasRaw {
			r.raw = b.str(a.RawValue)
		} else {
			r.raw = noStringIdx
		}
		resolved[i] = r
	}

	b.events = append(b.events, func() []byte {
		var body bytes.Buffer
		binary.Write(&body, binary.LittleEndian, nsIdx)
		binary.Write(&body, binary.LittleEndian, nameIdx)
		binary.Write(&body, binary.LittleEndian, uint16(20))               // attribute_start
		binary.Write(&body, binary.LittleEndian, uint16(20))               // attribute_size
		binary.Write(&body, binary.LittleEndian, uint16(len(resolved)))    // attribute_count
		binary.Write(&body, binary.LittleEndian, uint16(0))                // id_index
		binary.Write(&body, binary.LittleEndian, uint16(0))                // class_index
		binary.Write(&body, binary.LittleEndian, uint16(0))                // style_index
		for _, a := range resolved {
			binary.Write(&body, binary.LittleEndian, a.ns)
			binary.Write(&body, binary.LittleEndian, a.name)
			binary.Write(&body, binary.LittleEndian, a.raw)
			binary.Write(&body, binary.LittleEndian, uint16(8)) // resvalue size
			binary.Write(&body, binary.LittleEndian, uint8(0))  // res0
			binary.Write(&body, binary.LittleEndian, uint8(a.dataType))
			binary.Write(&body, binary.LittleEndian, a.data)
		}
		return xmlNodeChunkBody(ChunkXMLStartElement, body.Bytes())
	})
}

func (b *axmlBuilder) endElement(ns, name string) {
	nsIdx := uint32(noStringIdx)
	if ns != "" {
		nsIdx = b.str(ns)
	}
	nameIdx := b.str(name)
	b.events = append(b.events, func() []byte { return xmlNodeChunk(ChunkXMLEndElement, u32le(nsIdx), u32le(nameIdx)) })
}

const noStringIdx = 0xffffffff

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// xmlNodeChunk builds a {line:1, comment:0xffffffff} header plus the two
// uint32 fields most XML events carry (namespace/name or prefix/uri refs).
func xmlNodeChunk(typ ChunkType, a, b []byte) []byte {
	return xmlNodeChunkBody(typ, append(append([]byte{}, a...), b...))
}

func xmlNodeChunkBody(typ ChunkType, body []byte) []byte {
	const headerSize = 16
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(typ))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, uint32(headerSize+len(body)))
	binary.Write(&buf, binary.LittleEndian, uint32(1))          // line
	binary.Write(&buf, binary.LittleEndian, uint32(0xffffffff)) // comment
	buf.Write(body)
	return buf.Bytes()
}

// buildStringPoolChunk encodes strs as a UTF-8 STRING_POOL chunk.
func buildStringPoolChunk(strs []string) []byte {
	const headerSize = 28
	offsets := make([]uint32, len(strs))
	var data bytes.Buffer
	for i, s := range strs {
		offsets[i] = uint32(data.Len())
		writeUTF8PoolString(&data, s)
	}
	stringsStart := uint32(headerSize + 4*len(strs))

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkStringPool))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, uint32(headerSize+4*len(strs)+data.Len()))
	binary.Write(&buf, binary.LittleEndian, uint32(len(strs))) // string_count
	binary.Write(&buf, binary.LittleEndian, uint32(0))         // style_count
	binary.Write(&buf, binary.LittleEndian, uint32(UTF8Flag))  // flags
	binary.Write(&buf, binary.LittleEndian, stringsStart)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // styles_start
	for _, off := range offsets {
		binary.Write(&buf, binary.LittleEndian, off)
	}
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func writeUTF8PoolString(buf *bytes.Buffer, s string) {
	// char_count and byte_count are equal here since the test fixtures are
	// all single-byte-per-rune ASCII.
	buf.WriteByte(byte(len(s)))
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	buf.WriteByte(0)
}

// buildResourceMapChunk encodes ids as an XML_RESOURCE_MAP chunk.
func buildResourceMapChunk(ids []uint32) []byte {
	const headerSize = 8
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkXMLResourceMap))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, uint32(headerSize+4*len(ids)))
	for _, id := range ids {
		binary.Write(&buf, binary.LittleEndian, id)
	}
	return buf.Bytes()
}

// buildAxml assembles the full document: XML chunk wrapper, string pool,
// an optional resource map, then every queued event in order.
func (b *axmlBuilder) build() []byte {
	pool := buildStringPoolChunk(b.strings)

	var resourceMap []byte
	if len(b.resourceMap) > 0 {
		resourceMap = buildResourceMapChunk(b.resourceMap)
	}

	var events bytes.Buffer
	for _, ev := range b.events {
		events.Write(ev())
	}

	const topHeaderSize = 8
	total := topHeaderSize + len(pool) + len(resourceMap) + events.Len()

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkXML))
	binary.Write(&buf, binary.LittleEndian, uint16(topHeaderSize))
	binary.Write(&buf, binary.LittleEndian, uint32(total))
	buf.Write(pool)
	buf.Write(resourceMap)
	buf.Write(events.Bytes())
	return buf.Bytes()
}
