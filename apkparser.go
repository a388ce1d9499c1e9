// Package axmldecode decodes compiled AndroidManifest.xml chunk streams
// (and, optionally, resources.arsc resource tables) from Android APKs into
// textual XML.
package axmldecode

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"runtime/debug"
)

// DecodeManifest decodes a compiled AndroidManifest.xml byte stream into
// its textual XML form. resolver may be nil, in which case
// REFERENCE/ATTRIBUTE values and attribute names fall back to their raw id
// forms (spec.md §4.3/§4.6).
func DecodeManifest(manifestBytes []byte, resolver ResourceResolver, cfg Config) (string, error) {
	if manifestBytes == nil {
		return "", fmt.Errorf("%w: manifestBytes is nil", ErrInvalidArgument)
	}
	var mapper AttributeValueMapper
	if cfg.AttributeValueMapping {
		mapper = DefaultAttributeValueMapper
	}
	p := NewBinaryXmlParser(manifestBytes, resolver, mapper)
	return p.Parse()
}

// DecodeApk opens the APK at path, parses its resources.arsc (if present)
// and AndroidManifest.xml, and returns the manifest's textual XML form.
//
// zipErr != nil means the APK couldn't be opened at all. The manifest is
// still parsed (without reference resolving) when resourcesErr != nil, so
// callers that don't care about resource resolution can ignore it.
func DecodeApk(path string, cfg Config) (xml string, zipErr, resourcesErr, manifestErr error) {
	zr, zipErr := OpenZip(path)
	if zipErr != nil {
		return
	}
	defer zr.Close()

	xml, resourcesErr, manifestErr = DecodeApkWithZip(zr, cfg)
	return
}

// DecodeApkWithZip is DecodeApk for a ZIP archive already opened with
// OpenZip or OpenZipReader. It does not close zr.
func DecodeApkWithZip(zr *ZipReader, cfg Config) (xml string, resourcesErr, manifestErr error) {
	table, resourcesErr := parseApkResources(zr)

	var resolver ResourceResolver = emptyResolver{}
	if table != nil {
		resolver = NewTableResolver(table, cfg.Locale, cfg.ResolveToValue, nil)
	}

	xml, manifestErr = parseApkManifest(zr, resolver, cfg)
	return
}

func parseApkResources(zr *ZipReader) (table *ResourceTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic parsing resources.arsc: %v\n%s", r, string(debug.Stack()))
		}
	}()

	resourcesFile := zr.File["resources.arsc"]
	if resourcesFile == nil {
		return nil, os.ErrNotExist
	}

	data, err := resourcesFile.ReadAll(1 << 30)
	if err != nil {
		return nil, fmt.Errorf("reading resources.arsc: %w", err)
	}
	return ParseResourceTable(data)
}

func parseApkManifest(zr *ZipReader, resolver ResourceResolver, cfg Config) (string, error) {
	manifest := zr.File["AndroidManifest.xml"]
	if manifest == nil {
		return "", ErrManifestNotFound
	}

	if err := manifest.Open(); err != nil {
		return "", err
	}
	defer manifest.Close()

	// A broken or crafted ZIP can carry more than one entry named
	// AndroidManifest.xml; try each in turn, same tolerance as the APK
	// archive collaborator's own broken-zip scan.
	const maxManifestSize = 1 << 28

	var lastErr error
	for manifest.Next() {
		data, err := ioutil.ReadAll(io.LimitReader(manifest, maxManifestSize))
		if err != nil {
			lastErr = err
			continue
		}
		xml, err := DecodeManifest(data, resolver, cfg)
		if err == nil {
			return xml, nil
		}
		lastErr = err
	}

	if lastErr == ErrPlainTextManifest {
		return "", lastErr
	}
	return "", fmt.Errorf("parsing manifest: %w", lastErr)
}
