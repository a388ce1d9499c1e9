package axmldecode

import (
	"fmt"
	"strconv"
)

// AttributeValueMapper customizes how an attribute's rendered value is
// displayed, given its already-resolved name and value (spec.md §9's
// attribute-value mapping hook). Returning the input value unchanged is a
// valid implementation. A nil mapper disables the hook entirely.
type AttributeValueMapper func(attributeName, value string) string

// DefaultAttributeValueMapper humanizes the attributes listed in spec.md
// §9 (screenOrientation, configChanges, windowSoftInputMode, launchMode,
// documentLaunchMode, installLocation, protectionLevel) and passes
// everything else through unchanged.
func DefaultAttributeValueMapper(attributeName, value string) string {
	return humanizeAttributeValue(attributeName, value)
}

// BinaryXmlParser decodes one compiled AndroidManifest.xml-shaped chunk
// stream into its textual XML form, per spec.md §4.3.
type BinaryXmlParser struct {
	r           *ByteReader
	hr          *ChunkHeaderReader
	resolver    ResourceResolver
	mapper      AttributeValueMapper
	pool        *StringPool
	resourceMap []uint32
	translator  *xmlTranslator
}

// NewBinaryXmlParser prepares a parser over data. resolver may be nil (no
// reference/attribute-name resolution). mapper may be nil (no humanizing of
// int-valued attributes).
func NewBinaryXmlParser(data []byte, resolver ResourceResolver, mapper AttributeValueMapper) *BinaryXmlParser {
	r := NewByteReader(data)
	return &BinaryXmlParser{
		r:          r,
		hr:         NewChunkHeaderReader(r),
		resolver:   resolver,
		mapper:     mapper,
		translator: newXmlTranslator(),
	}
}

// Parse decodes the chunk stream and returns the accumulated XML text.
func (p *BinaryXmlParser) Parse() (string, error) {
	if looksLikePlainTextXML(p.r.Bytes()) {
		return "", ErrPlainTextManifest
	}

	first, err := p.hr.Read()
	if err != nil {
		return p.translator.xml(), nil
	}
	base := first.Base()
	if base.Type != ChunkXML && base.Type != ChunkNull {
		return "", fmt.Errorf("%w: unexpected first chunk 0x%04x", ErrUnexpectedChunkType, base.Type)
	}

	poolHdrI, err := p.hr.Read()
	if err != nil {
		return "", fmt.Errorf("xml string pool header: %w", err)
	}
	poolHdr, ok := poolHdrI.(StringPoolHeader)
	if !ok {
		return "", ErrMissingStringPool
	}
	pool, err := decodeStringPool(p.r, poolHdr)
	if err != nil {
		return "", fmt.Errorf("xml string pool: %w", err)
	}
	p.pool = pool
	if err := p.r.Seek(poolHdr.ChunkEnd()); err != nil {
		return "", err
	}

	if p.r.Remaining() == 0 {
		return p.translator.xml(), nil
	}
	chunkHdrI, err := p.hr.Read()
	if err != nil {
		return p.translator.xml(), nil
	}

	if chunkHdrI.Base().Type == ChunkXMLResourceMap {
		if err := p.readResourceMap(chunkHdrI.Base()); err != nil {
			return "", fmt.Errorf("resource map: %w", err)
		}
		if p.r.Remaining() == 0 {
			return p.translator.xml(), nil
		}
		if chunkHdrI, err = p.hr.Read(); err != nil {
			return p.translator.xml(), nil
		}
	}

	for {
		bodyStart := p.r.Pos()
		switch h := chunkHdrI.(type) {
		case XMLNodeHeader:
			if err := p.dispatchXMLNode(h); err != nil {
				return "", fmt.Errorf("chunk at 0x%x: %w", h.Start(), err)
			}
		default:
			base := chunkHdrI.Base()
			if !InXMLChunkRange(base.Type) {
				return "", fmt.Errorf("%w: 0x%04x", ErrUnexpectedChunkType, base.Type)
			}
			// A reserved-range chunk type this decoder doesn't specifically
			// handle; tolerated per spec.md §4.2/§9.
		}

		if err := p.r.Seek(bodyStart + int(chunkHdrI.Base().BodySize())); err != nil {
			return "", err
		}
		if p.r.Remaining() == 0 {
			break
		}
		chunkHdrI, err = p.hr.Read()
		if err != nil {
			break
		}
	}

	return p.translator.xml(), nil
}

func (p *BinaryXmlParser) dispatchXMLNode(h XMLNodeHeader) error {
	switch h.Type {
	case ChunkXMLStartNamespace:
		return p.readNamespace(p.translator.onNamespaceStart)
	case ChunkXMLEndNamespace:
		return p.readNamespace(p.translator.onNamespaceEnd)
	case ChunkXMLStartElement:
		return p.readStartTag()
	case ChunkXMLEndElement:
		return p.readEndTag()
	case ChunkXMLCData:
		return p.readCData()
	default:
		return nil
	}
}

func (p *BinaryXmlParser) readNamespace(apply func(prefix, uri string)) error {
	prefixRef, err := u32(p.r)
	if err != nil {
		return err
	}
	uriRef, err := u32(p.r)
	if err != nil {
		return err
	}
	apply(p.getString(int(prefixRef)), p.getString(int(uriRef)))
	return nil
}

func (p *BinaryXmlParser) readStartTag() error {
	nsRef, err := u32(p.r)
	if err != nil {
		return err
	}
	nameRef, err := u32(p.r)
	if err != nil {
		return err
	}
	namespace := p.getString(int(nsRef))
	name := p.getString(int(nameRef))

	if _, err := p.r.ReadU16(); err != nil { // attribute_start
		return err
	}
	if _, err := p.r.ReadU16(); err != nil { // attribute_size
		return err
	}
	attrCountRaw, err := p.r.ReadU16()
	if err != nil {
		return err
	}
	if _, err := p.r.ReadU16(); err != nil { // id_index
		return err
	}
	if _, err := p.r.ReadU16(); err != nil { // class_index
		return err
	}
	if _, err := p.r.ReadU16(); err != nil { // style_index
		return err
	}

	attrs := make([]xmlAttribute, 0, attrCountRaw)
	for i := uint32(0); i < attrCountRaw; i++ {
		a, err := p.readAttribute()
		if err != nil {
			return err
		}
		attrs = append(attrs, a)
	}
	p.translator.onStartTag(namespace, name, attrs)
	return nil
}

func (p *BinaryXmlParser) readEndTag() error {
	nsRef, err := u32(p.r)
	if err != nil {
		return err
	}
	nameRef, err := u32(p.r)
	if err != nil {
		return err
	}
	p.translator.onEndTag(p.getString(int(nsRef)), p.getString(int(nameRef)))
	return nil
}

func (p *BinaryXmlParser) readCData() error {
	dataRef, err := u32(p.r)
	if err != nil {
		return err
	}
	if _, err := readResValue(p.r); err != nil {
		return err
	}
	if data := p.getString(int(dataRef)); data != "" {
		p.translator.onCData(data)
	}
	return nil
}

func (p *BinaryXmlParser) readAttribute() (xmlAttribute, error) {
	nsRef, err := u32(p.r)
	if err != nil {
		return xmlAttribute{}, err
	}
	nameRef, err := u32(p.r)
	if err != nil {
		return xmlAttribute{}, err
	}
	rawValueRef, err := p.r.ReadU32()
	if err != nil {
		return xmlAttribute{}, err
	}

	namespace := p.getString(int(nsRef))
	name := p.attributeName(int(nameRef))
	var rawValue string
	var hasRawValue bool
	if int32(rawValueRef) >= 0 {
		rawValue = p.getString(int(rawValueRef))
		hasRawValue = true
	}
	resValue, err := readResValue(p.r)
	if err != nil {
		return xmlAttribute{}, err
	}

	value := rawValue
	if !hasRawValue {
		value = resValue.Render(p.pool, p)
	}
	if p.mapper != nil {
		value = p.mapper(name, value)
	}
	return xmlAttribute{Namespace: namespace, Name: name, Value: value}, nil
}

// ResolveReference implements ValueResolver so attribute value rendering
// can go through p.resolver when present, or render a bare hex id otherwise
// (spec.md §4.4's REFERENCE/ATTRIBUTE fallback).
func (p *BinaryXmlParser) ResolveReference(resID uint32) (string, bool) {
	if p.resolver == nil {
		return "", false
	}
	return p.resolver.ResolveReference(resID)
}

func (p *BinaryXmlParser) attributeName(nameRef int) string {
	if name := p.getString(nameRef); name != "" {
		return name
	}
	if nameRef >= 0 && nameRef < len(p.resourceMap) {
		resID := p.resourceMap[nameRef]
		if p.resolver != nil {
			if resolved, ok := p.resolver.ResolveAttributeName(resID); ok {
				return resolved
			}
		}
		return "AttrId:0x" + strconv.FormatUint(uint64(resID), 16)
	}
	return ""
}

func (p *BinaryXmlParser) getString(ref int) string {
	if ref < 0 || p.pool == nil {
		return ""
	}
	s, _ := p.pool.Get(ref)
	return s
}

// maxResourceMapEntries bounds the id-table allocation below so a crafted
// XML_RESOURCE_MAP chunk claiming an enormous body size can't force a
// multi-gigabyte allocation before a single byte of it is validated.
const maxResourceMapEntries = 2 * 1024 * 1024

func (p *BinaryXmlParser) readResourceMap(base ChunkHeader) error {
	count := int(base.BodySize()) / 4
	if count > maxResourceMapEntries {
		return fmt.Errorf("resource map: too many entries (%d)", count)
	}
	ids := make([]uint32, count)
	for i := range ids {
		v, err := u32(p.r)
		if err != nil {
			return err
		}
		ids[i] = v
	}
	p.resourceMap = ids
	return nil
}

// looksLikePlainTextXML sniffs the first 8 bytes of a manifest blob — the
// {chunk_type, header_size, chunk_size} header of a binary chunk stream —
// read back as raw text. Some real-world samples ship an uncompiled,
// plaintext AndroidManifest.xml instead of the compiled binary form; this
// catches that before the chunk reader produces confusing downstream
// errors, same sniff as the teacher's ParseXml.
func looksLikePlainTextXML(peek []byte) bool {
	if len(peek) < 8 {
		return false
	}
	s := string(peek[:8])
	return hasPrefix(s, "<?xml ") || hasPrefix(s, "<manif")
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

