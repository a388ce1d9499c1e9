package axmldecode

import "fmt"

// ResTableConfig is the (partial) configuration block embedded in a
// TABLE_TYPE header: the fields needed to pick the right entry for a given
// locale. Fields beyond density exist on disk but this decoder has no
// caller-visible use for them (screen layout, UI mode, SDK version...), so
// readResTableConfig skips past them using the block's own declared size
// rather than naming every field.
type ResTableConfig struct {
	Size        uint32
	MCC         uint16
	MNC         uint16
	Language    string
	Country     string
	Orientation uint8
	Touchscreen uint8
	Density     uint32
}

// Locale renders the config's language/country pair the way spec.md §4.6
// requires locale candidates to be compared: "lang-COUNTRY", or "lang" when
// country is absent, or "" when both are absent.
func (c ResTableConfig) Locale() string {
	if c.Language == "" {
		return ""
	}
	if c.Country == "" {
		return c.Language
	}
	return c.Language + "-" + c.Country
}

func readResTableConfig(r *ByteReader) (ResTableConfig, error) {
	begin := r.Pos()
	size, err := u32(r)
	if err != nil {
		return ResTableConfig{}, err
	}
	var c ResTableConfig
	c.Size = size
	if c.MCC, err = readU16As(r); err != nil {
		return ResTableConfig{}, err
	}
	if c.MNC, err = readU16As(r); err != nil {
		return ResTableConfig{}, err
	}
	if c.Language, err = r.ReadFixedAscii(2); err != nil {
		return ResTableConfig{}, err
	}
	if c.Country, err = r.ReadFixedAscii(2); err != nil {
		return ResTableConfig{}, err
	}
	orient, err := r.ReadU8()
	if err != nil {
		return ResTableConfig{}, err
	}
	touch, err := r.ReadU8()
	if err != nil {
		return ResTableConfig{}, err
	}
	c.Orientation, c.Touchscreen = uint8(orient), uint8(touch)
	if c.Density, err = readU16As32(r); err != nil {
		return ResTableConfig{}, err
	}
	end := r.Pos()
	if err := r.Skip(int(size) - (end - begin)); err != nil {
		return ResTableConfig{}, err
	}
	return c, nil
}

func readU16As(r *ByteReader) (uint16, error) {
	v, err := r.ReadU16()
	return uint16(v), err
}

func readU16As32(r *ByteReader) (uint32, error) {
	v, err := r.ReadU16()
	return uint32(v), err
}

const entryFlagComplex = 0x0001

// ResourceEntry is one (resID, locale) candidate for an entry in the
// resource table, per spec.md §4.5.
type ResourceEntry struct {
	ResID    uint32
	TypeName string
	Key      string
	Value    ResourceValue
	HasValue bool
	Locale   string
}

// ResourceTable is the parsed form of a resources.arsc blob: a multimap of
// candidate entries per resource id, plus the "attr" type's id->name map
// used to recover attribute names (spec.md §4.6).
type ResourceTable struct {
	pool      *StringPool
	entries   map[uint32][]ResourceEntry
	attrNames map[uint32]string
}

// String returns the pool string at idx, or ok=false if idx is out of range.
func (t *ResourceTable) String(idx int) (string, bool) {
	if t.pool == nil {
		return "", false
	}
	return t.pool.Get(idx)
}

// AttributeName returns the "attr"-type entry name for resID, if any.
func (t *ResourceTable) AttributeName(resID uint32) (string, bool) {
	name, ok := t.attrNames[resID]
	return name, ok
}

// SelectEntry picks the best candidate for resID given locale, following
// the priority order from spec.md §4.6: exact "lang-COUNTRY", then bare
// "lang", then the locale-less ("") candidate, then the first candidate
// encountered as a last resort.
func (t *ResourceTable) SelectEntry(resID uint32, locale string) (ResourceEntry, bool) {
	candidates := t.entries[resID]
	if len(candidates) == 0 {
		return ResourceEntry{}, false
	}

	lang, langCountry := splitLocale(locale)

	if langCountry != "" {
		for _, e := range candidates {
			if e.Locale == langCountry {
				return e, true
			}
		}
	}
	if lang != "" {
		for _, e := range candidates {
			if e.Locale == lang {
				return e, true
			}
		}
	}
	for _, e := range candidates {
		if e.Locale == "" {
			return e, true
		}
	}
	return candidates[0], true
}

func splitLocale(locale string) (lang, langCountry string) {
	if locale == "" {
		return "", ""
	}
	for i := 0; i < len(locale); i++ {
		if locale[i] == '-' {
			return locale[:i], locale
		}
	}
	return locale, locale
}

func (t *ResourceTable) addEntry(e ResourceEntry) {
	t.entries[e.ResID] = append(t.entries[e.ResID], e)
	if e.TypeName == "attr" {
		t.attrNames[e.ResID] = e.Key
	}
}

// ParseResourceTable decodes a resources.arsc blob into a ResourceTable,
// per spec.md §4.5: TABLE -> global STRING_POOL -> N * TABLE_PACKAGE, each
// package walking its TABLE_TYPE_SPEC/TABLE_TYPE children.
func ParseResourceTable(data []byte) (*ResourceTable, error) {
	r := NewByteReader(data)
	hr := NewChunkHeaderReader(r)

	table := &ResourceTable{entries: map[uint32][]ResourceEntry{}, attrNames: map[uint32]string{}}

	tableHdrI, err := hr.Read()
	if err != nil {
		return table, nil //nolint:nilerr // empty input decodes to an empty table, not an error
	}
	tableHdr, ok := tableHdrI.(TableHeader)
	if !ok {
		return table, nil
	}

	poolHdrI, err := hr.Read()
	if err != nil {
		return table, fmt.Errorf("resource table global string pool header: %w", err)
	}
	poolHdr, ok := poolHdrI.(StringPoolHeader)
	if !ok {
		return table, fmt.Errorf("%w: expected global STRING_POOL after TABLE header", ErrUnexpectedChunkType)
	}
	pool, err := decodeStringPool(r, poolHdr)
	if err != nil {
		return table, fmt.Errorf("resource table global string pool: %w", err)
	}
	table.pool = pool
	if err := r.Seek(poolHdr.ChunkEnd()); err != nil {
		return table, err
	}

	for i := uint32(0); i < tableHdr.PackageCount && r.Remaining() > 0; i++ {
		if err := parseTablePackage(r, hr, table); err != nil {
			return table, fmt.Errorf("resource table package %d: %w", i, err)
		}
	}
	return table, nil
}

func parseTablePackage(r *ByteReader, hr *ChunkHeaderReader, table *ResourceTable) error {
	hdrI, err := hr.Read()
	if err != nil {
		return err
	}
	pkgHdr, ok := hdrI.(TablePackageHeader)
	if !ok {
		// Not every caller gets a well-formed package section; skip whatever
		// this chunk is and let the outer loop decide whether to continue.
		if base, ok := hdrI.(ChunkHeader); ok {
			return r.Seek(base.ChunkEnd())
		}
		return fmt.Errorf("%w: expected TABLE_PACKAGE", ErrUnexpectedChunkType)
	}

	begin := pkgHdr.Start() + int(pkgHdr.HeaderSize)

	var typeStrings, keyStrings *StringPool
	if pkgHdr.TypeStrings > 0 {
		if err := r.Seek(begin + int(pkgHdr.TypeStrings) - int(pkgHdr.HeaderSize)); err != nil {
			return err
		}
		h, err := hr.Read()
		if err != nil {
			return fmt.Errorf("type string pool header: %w", err)
		}
		sph, ok := h.(StringPoolHeader)
		if !ok {
			return fmt.Errorf("%w: expected type STRING_POOL", ErrUnexpectedChunkType)
		}
		if typeStrings, err = decodeStringPool(r, sph); err != nil {
			return fmt.Errorf("type string pool: %w", err)
		}
	}
	if pkgHdr.KeyStrings > 0 {
		if err := r.Seek(begin + int(pkgHdr.KeyStrings) - int(pkgHdr.HeaderSize)); err != nil {
			return err
		}
		h, err := hr.Read()
		if err != nil {
			return fmt.Errorf("key string pool header: %w", err)
		}
		sph, ok := h.(StringPoolHeader)
		if !ok {
			return fmt.Errorf("%w: expected key STRING_POOL", ErrUnexpectedChunkType)
		}
		if keyStrings, err = decodeStringPool(r, sph); err != nil {
			return fmt.Errorf("key string pool: %w", err)
		}
	}

	if err := r.Seek(pkgHdr.ChunkEnd()); err != nil {
		return err
	}

	for r.Remaining() > 0 {
		chunkStart := r.Pos()
		hdrI, err := hr.Read()
		if err != nil {
			return err
		}
		base := hdrI.Base()

		switch h := hdrI.(type) {
		case TableTypeSpecHeader:
			if err := r.Seek(chunkStart + int(h.BodySize()) + int(h.HeaderSize)); err != nil {
				return err
			}
		case TableTypeHeader:
			if err := parseTableType(r, h, typeStrings, keyStrings, pkgHdr.ID, table); err != nil {
				return fmt.Errorf("table type %d: %w", h.ID, err)
			}
			if err := r.Seek(chunkStart + int(base.ChunkSize)); err != nil {
				return err
			}
		case TablePackageHeader:
			// Reached the next package; caller's loop will re-read it.
			return r.Seek(chunkStart)
		default:
			if err := r.Seek(chunkStart + int(base.ChunkSize)); err != nil {
				return err
			}
		}
	}
	return nil
}

// maxTableTypeEntries bounds the entry-offset-table allocation below so a
// crafted TABLE_TYPE chunk claiming an enormous entry_count can't force a
// multi-gigabyte allocation before a single byte of it is validated.
const maxTableTypeEntries = 2 * 1024 * 1024

func parseTableType(r *ByteReader, h TableTypeHeader, typeStrings, keyStrings *StringPool, pkgID uint32, table *ResourceTable) error {
	chunkBegin := h.BodyStart()
	if h.EntryCount > maxTableTypeEntries {
		return fmt.Errorf("table type %d: too many entries (%d)", h.ID, h.EntryCount)
	}
	offsets := make([]uint32, h.EntryCount)
	for i := range offsets {
		v, err := u32(r)
		if err != nil {
			return err
		}
		offsets[i] = v
	}

	typeName := fmt.Sprintf("type%d", h.ID)
	if typeStrings != nil && h.ID > 0 {
		if s, ok := typeStrings.Get(int(h.ID) - 1); ok {
			typeName = s
		}
	}

	entriesStart := chunkBegin + int(h.EntriesStart) - int(h.HeaderSize)
	locale := h.Config.Locale()

	for entryIndex, off := range offsets {
		if off == 0xffffffff {
			continue
		}
		if err := r.Seek(entriesStart + int(off)); err != nil {
			return err
		}
		entry, err := readResourceEntry(r, pkgID, uint32(h.ID), uint32(entryIndex), typeName, keyStrings, locale)
		if err != nil {
			return err
		}
		table.addEntry(entry)
	}
	return nil
}

func readResourceEntry(r *ByteReader, pkgID, typeID, entryIndex uint32, typeName string, keyStrings *StringPool, locale string) (ResourceEntry, error) {
	begin := r.Pos()
	size, err := r.ReadU16()
	if err != nil {
		return ResourceEntry{}, err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return ResourceEntry{}, err
	}
	keyRef, err := u32(r)
	if err != nil {
		return ResourceEntry{}, err
	}
	key := fmt.Sprintf("key%d", keyRef)
	if keyStrings != nil {
		if s, ok := keyStrings.Get(int(keyRef)); ok {
			key = s
		}
	}

	resID := (pkgID << 24) | (typeID << 16) | entryIndex

	if flags&entryFlagComplex != 0 {
		if _, err := u32(r); err != nil { // parent entry id, unused
			return ResourceEntry{}, err
		}
		count, err := u32(r)
		if err != nil {
			return ResourceEntry{}, err
		}
		if err := r.Seek(begin + int(size)); err != nil {
			return ResourceEntry{}, err
		}
		for i := uint32(0); i < count; i++ {
			if _, err := u32(r); err != nil { // map entry name (another resource id)
				return ResourceEntry{}, err
			}
			if _, err := readResValue(r); err != nil {
				return ResourceEntry{}, err
			}
		}
		return ResourceEntry{ResID: resID, TypeName: typeName, Key: key, Locale: locale}, nil
	}

	if err := r.Seek(begin + int(size)); err != nil {
		return ResourceEntry{}, err
	}
	value, err := readResValue(r)
	if err != nil {
		return ResourceEntry{}, err
	}
	return ResourceEntry{ResID: resID, TypeName: typeName, Key: key, Value: value, HasValue: true, Locale: locale}, nil
}
