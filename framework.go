package axmldecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// frameworkStyleStart/End bound the (exclusive) range of Android framework
// style resource ids (spec.md §4.6): @android:style/* lives in
// (0x01030000, 0x01031000).
const (
	frameworkStyleStart = 0x01030000
	frameworkStyleEnd   = 0x01031000
)

// FrameworkDictionary resolves framework-style resource ids
// (0x0103xxxx-range style resources) to their "@android:style/Name" form
// without needing a copy of resources.arsc for the platform itself. No
// framework dictionary data ships with this module — none was available to
// ground one on — so FrameworkDictionary only defines the interface and a
// loader for callers who have their own "name = decimal-id" text dump.
type FrameworkDictionary interface {
	// StyleName returns the bare style name for resID (without the
	// "@android:style/" prefix), or ok=false if resID isn't known.
	StyleName(resID uint32) (string, bool)
}

// InFrameworkStyleRange reports whether resID falls in the exclusive
// framework style range (0x01030000, 0x01031000).
func InFrameworkStyleRange(resID uint32) bool {
	return resID > frameworkStyleStart && resID < frameworkStyleEnd
}

type mapFrameworkDictionary map[uint32]string

func (m mapFrameworkDictionary) StyleName(resID uint32) (string, bool) {
	name, ok := m[resID]
	return name, ok
}

// LoadFrameworkDictionary reads a "name = decimal-id" text asset, one
// mapping per non-blank line, and returns a FrameworkDictionary backed by
// it. Malformed lines are skipped rather than failing the whole load,
// mirroring the tolerant line-by-line scan of the original loader.
func LoadFrameworkDictionary(r io.Reader) (FrameworkDictionary, error) {
	m := make(mapFrameworkDictionary)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		id, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
		if err != nil {
			continue
		}
		m[uint32(id)] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("framework dictionary: %w", err)
	}
	return m, nil
}

// resolveFrameworkStyle renders resID as "@android:style/<name>" when it
// falls in the framework style range, falling back to the hex id when dict
// is nil or doesn't know the name.
func resolveFrameworkStyle(resID uint32, dict FrameworkDictionary) (string, bool) {
	if !InFrameworkStyleRange(resID) {
		return "", false
	}
	name := fmt.Sprintf("0x%x", resID)
	if dict != nil {
		if n, ok := dict.StyleName(resID); ok {
			name = n
		}
	}
	return "@android:style/" + name, true
}
