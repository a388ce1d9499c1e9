package axmldecode

import (
	"strconv"
	"strings"
)

// humanizedIntAttributes is the set of attribute names whose INT_DEC/INT_HEX
// value this module expands into the symbolic constant (or bitmask flag
// list) Android actually defines for it, per spec.md §9. documentLaunchMode
// is carried here even though it's absent from the attribute mapper this
// was grounded on, matching the explicit list spec.md calls out.
var humanizedIntAttributes = map[string]func(int32) string{
	"screenOrientation":   humanizeScreenOrientation,
	"configChanges":       humanizeConfigChanges,
	"windowSoftInputMode": humanizeWindowSoftInputMode,
	"launchMode":          humanizeLaunchMode,
	"documentLaunchMode":  humanizeDocumentLaunchMode,
	"installLocation":     humanizeInstallLocation,
	"protectionLevel":     humanizeProtectionLevel,
}

// humanizeAttributeValue maps attribute values that came from an
// int-valued resource_value (INT_DEC/INT_HEX) to Android's symbolic names
// for them, leaving every other attribute's rendered value untouched. value
// must be the already-rendered string: a signed decimal (as produced by
// ResourceValue.Render for INT_DEC) or a "0x"-prefixed hex value (as produced
// for INT_HEX); anything else passes through unchanged.
func humanizeAttributeValue(attributeName, value string) string {
	fn, ok := humanizedIntAttributes[attributeName]
	if !ok {
		return value
	}
	if strings.HasPrefix(value, "0x") {
		u, err := strconv.ParseUint(value[2:], 16, 32)
		if err != nil {
			return value
		}
		return fn(int32(u))
	}
	if !isPlainDigits(strings.TrimPrefix(value, "-")) {
		return value
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}
	return fn(int32(n))
}

func isPlainDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func humanizeScreenOrientation(v int32) string {
	switch v {
	case 0x00000003:
		return "behind"
	case 0x0000000a:
		return "fullSensor"
	case 0x0000000d:
		return "fullUser"
	case 0x00000000:
		return "landscape"
	case 0x0000000e:
		return "locked"
	case 0x00000005:
		return "nosensor"
	case 0x00000001:
		return "portrait"
	case 0x00000008:
		return "reverseLandscape"
	case 0x00000009:
		return "reversePortrait"
	case 0x00000004:
		return "sensor"
	case 0x00000006:
		return "sensorLandscape"
	case 0x00000007:
		return "sensorPortrait"
	case -1:
		return "unspecified"
	case 0x00000002:
		return "user"
	case 0x0000000b:
		return "userLandscape"
	case 0x0000000c:
		return "userPortrait"
	default:
		return "ScreenOrientation:" + strconv.FormatInt(int64(v), 16)
	}
}

func humanizeLaunchMode(v int32) string {
	switch v {
	case 0:
		return "standard"
	case 1:
		return "singleTop"
	case 2:
		return "singleTask"
	case 3:
		return "singleInstance"
	default:
		return "LaunchMode:" + strconv.FormatInt(int64(v), 16)
	}
}

// humanizeDocumentLaunchMode mirrors Android's documentLaunchMode enum,
// the sibling attribute to launchMode that the original mapper's
// attribute set never carried.
func humanizeDocumentLaunchMode(v int32) string {
	switch v {
	case 0:
		return "none"
	case 1:
		return "always"
	case 2:
		return "intoExisting"
	case 3:
		return "never"
	default:
		return "DocumentLaunchMode:" + strconv.FormatInt(int64(v), 16)
	}
}

// humanizeConfigChanges decomposes a configChanges bitmask into every flag
// it sets, joined in ascending bit order (fontScale's bit is the highest of
// the set, so it always sorts last).
func humanizeConfigChanges(v int32) string {
	var flags []string
	u := uint32(v)
	if u&0x00000001 != 0 {
		flags = append(flags, "mcc")
	}
	if u&0x00000002 != 0 {
		flags = append(flags, "mnc")
	}
	if u&0x00000004 != 0 {
		flags = append(flags, "locale")
	}
	if u&0x00000008 != 0 {
		flags = append(flags, "touchscreen")
	}
	if u&0x00000010 != 0 {
		flags = append(flags, "keyboard")
	}
	if u&0x00000020 != 0 {
		flags = append(flags, "keyboardHidden")
	}
	if u&0x00000040 != 0 {
		flags = append(flags, "navigation")
	}
	if u&0x00000080 != 0 {
		flags = append(flags, "orientation")
	}
	if u&0x00000100 != 0 {
		flags = append(flags, "screenLayout")
	}
	if u&0x00000200 != 0 {
		flags = append(flags, "uiMode")
	}
	if u&0x00000400 != 0 {
		flags = append(flags, "screenSize")
	}
	if u&0x00000800 != 0 {
		flags = append(flags, "smallestScreenSize")
	}
	if u&0x00001000 != 0 {
		flags = append(flags, "density")
	}
	if u&0x00002000 != 0 {
		flags = append(flags, "direction")
	}
	if u&0x40000000 != 0 {
		flags = append(flags, "fontScale")
	}
	return strings.Join(flags, "|")
}

func humanizeWindowSoftInputMode(v int32) string {
	u := uint32(v)
	adjust := u & 0x000000f0
	state := u & 0x0000000f

	var parts []string
	switch adjust {
	case 0x00000030:
		parts = append(parts, "adjustNothing")
	case 0x00000020:
		parts = append(parts, "adjustPan")
	case 0x00000010:
		parts = append(parts, "adjustResize")
	case 0x00000000:
	default:
		parts = append(parts, "WindowInputModeAdjust:"+strconv.FormatUint(uint64(adjust), 16))
	}
	switch state {
	case 0x00000003:
		parts = append(parts, "stateAlwaysHidden")
	case 0x00000005:
		parts = append(parts, "stateAlwaysVisible")
	case 0x00000002:
		parts = append(parts, "stateHidden")
	case 0x00000001:
		parts = append(parts, "stateUnchanged")
	case 0x00000004:
		parts = append(parts, "stateVisible")
	case 0x00000000:
	default:
		parts = append(parts, "WindowInputModeState:"+strconv.FormatUint(uint64(state), 16))
	}
	return strings.Join(parts, "|")
}

func humanizeProtectionLevel(v int32) string {
	u := uint32(v)
	var levels []string
	if u&0x10 != 0 {
		u ^= 0x10
		levels = append(levels, "system")
	}
	if u&0x20 != 0 {
		u ^= 0x20
		levels = append(levels, "development")
	}
	switch u {
	case 0:
		levels = append(levels, "normal")
	case 1:
		levels = append(levels, "dangerous")
	case 2:
		levels = append(levels, "signature")
	case 3:
		levels = append(levels, "signatureOrSystem")
	default:
		levels = append(levels, "ProtectionLevel:"+strconv.FormatUint(uint64(u), 16))
	}
	return strings.Join(levels, "|")
}

func humanizeInstallLocation(v int32) string {
	switch v {
	case 0:
		return "auto"
	case 1:
		return "internalOnly"
	case 2:
		return "preferExternal"
	default:
		return "installLocation:" + strconv.FormatInt(int64(v), 16)
	}
}
