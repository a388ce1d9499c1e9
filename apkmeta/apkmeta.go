// Package apkmeta lifts the handful of attributes most callers actually
// want out of a decoded AndroidManifest.xml: package identity, version,
// SDK bounds, the application's label/name/icon, and the permissions it
// declares.
package apkmeta

import (
	"encoding/xml"
	"strconv"
	"strings"
)

const androidNS = "http://schemas.android.com/apk/res/android"

// Meta is the basic APK metadata recoverable from a manifest's textual XML
// form, grounded on the original decoder's ApkMeta value object.
type Meta struct {
	PackageName      string
	Label            string
	ApplicationName  string
	Icon             string
	VersionName      string
	VersionCode      *int64
	MinSdkVersion    string
	TargetSdkVersion string
	UsesPermissions  []string
}

// Parse reads manifestXML (the textual XML produced by this module's
// decoder) and extracts a Meta. It tolerates missing elements/attributes,
// leaving the corresponding field at its zero value.
func Parse(manifestXML string) (*Meta, error) {
	dec := xml.NewDecoder(strings.NewReader(manifestXML))

	meta := &Meta{}
	var sawUsesSdk, sawApplication bool

	for {
		tok, err := dec.Token()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "manifest":
			meta.PackageName = attr(start, "", "package")
			meta.VersionName = androidAttr(start, "versionName")
			meta.VersionCode = parseVersionCode(androidAttr(start, "versionCode"))
		case "uses-sdk":
			if sawUsesSdk {
				continue
			}
			sawUsesSdk = true
			meta.MinSdkVersion = androidAttr(start, "minSdkVersion")
			meta.TargetSdkVersion = androidAttr(start, "targetSdkVersion")
		case "application":
			if sawApplication {
				continue
			}
			sawApplication = true
			meta.Label = androidAttr(start, "label")
			meta.ApplicationName = androidAttr(start, "name")
			meta.Icon = androidAttr(start, "icon")
		case "uses-permission":
			if name := androidAttr(start, "name"); name != "" {
				meta.UsesPermissions = append(meta.UsesPermissions, name)
			}
		}
	}

	return meta, nil
}

// androidAttr returns the value of the android:<local> attribute, whether
// it was parsed as namespace-qualified (the root element declares
// xmlns:android) or, defensively, as a literal "android:<local>" name.
func androidAttr(start xml.StartElement, local string) string {
	if v := attr(start, androidNS, local); v != "" {
		return v
	}
	return attr(start, "", "android:"+local)
}

func attr(start xml.StartElement, space, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local && (space == "" || a.Name.Space == space) {
			return a.Value
		}
	}
	return ""
}

func parseVersionCode(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
