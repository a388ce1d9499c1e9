package axmldecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResType enumerates the recognized resource_value.data_type codes from
// spec.md §4.4.
type ResType uint8

const (
	ResTypeNull      ResType = 0x00
	ResTypeReference ResType = 0x01
	ResTypeAttribute ResType = 0x02
	ResTypeString    ResType = 0x03
	ResTypeFloat     ResType = 0x04
	ResTypeDimension ResType = 0x05
	ResTypeFraction  ResType = 0x06
	ResTypeIntDec    ResType = 0x10
	ResTypeIntHex    ResType = 0x11
	ResTypeIntBool   ResType = 0x12

	ResTypeIntColorARGB8 ResType = 0x1c
	ResTypeIntColorRGB8  ResType = 0x1d
	ResTypeIntColorARGB4 ResType = 0x1e
	ResTypeIntColorRGB4  ResType = 0x1f
)

// Complex unit codes for DIMENSION/FRACTION, the low nibble of data.
const (
	unitPX = 0
	unitDP = 1
	unitSP = 2
	unitPT = 3
	unitIN = 4
	unitMM = 5

	unitFraction       = 0
	unitFractionParent = 1
)

// ResourceValue is the {data_type, data} pair from spec.md §3.
type ResourceValue struct {
	DataType ResType
	Data     uint32
}

// IsReference reports whether this value is a REFERENCE or ATTRIBUTE,
// i.e. something that names another resource id.
func (v ResourceValue) IsReference() bool {
	return v.DataType == ResTypeReference || v.DataType == ResTypeAttribute
}

// ValueResolver is consulted by Render to turn a REFERENCE/ATTRIBUTE value
// into a displayable string. A nil ValueResolver falls back to "@0x<hex>".
type ValueResolver interface {
	ResolveReference(resID uint32) (string, bool)
}

// Render renders v per the table in spec.md §4.4. pool is the string pool
// STRING values index into (nil is treated as empty).
func (v ResourceValue) Render(pool *StringPool, resolver ValueResolver) string {
	switch v.DataType {
	case ResTypeNull:
		return ""
	case ResTypeReference, ResTypeAttribute:
		if resolver != nil {
			if s, ok := resolver.ResolveReference(v.Data); ok {
				return s
			}
		}
		return fmt.Sprintf("@0x%x", v.Data)
	case ResTypeString:
		if pool == nil {
			return ""
		}
		s, ok := pool.Get(int(v.Data))
		if !ok {
			return ""
		}
		return s
	case ResTypeFloat:
		return formatJavaFloat(math.Float32frombits(v.Data))
	case ResTypeDimension:
		return formatComplex(v.Data) + dimensionUnit(v.Data)
	case ResTypeFraction:
		return formatComplex(v.Data) + fractionUnit(v.Data)
	case ResTypeIntDec:
		return strconv.FormatInt(int64(int32(v.Data)), 10)
	case ResTypeIntHex:
		return fmt.Sprintf("0x%x", v.Data)
	case ResTypeIntBool:
		if v.Data != 0 {
			return "true"
		}
		return "false"
	case ResTypeIntColorARGB8:
		return fmt.Sprintf("#%08x", v.Data)
	case ResTypeIntColorRGB8:
		return fmt.Sprintf("#%06x", v.Data&0x00ffffff)
	case ResTypeIntColorARGB4:
		return fmt.Sprintf("#%04x", v.Data&0xffff)
	case ResTypeIntColorRGB4:
		return fmt.Sprintf("#%03x", v.Data&0x0fff)
	default:
		return fmt.Sprintf("{%d:%d}", v.DataType, v.Data)
	}
}

// formatJavaFloat mirrors Float.toString(float): always a decimal point,
// plain decimal digits rather than Go's bare "1e+10" exponent notation.
func formatJavaFloat(f float32) string {
	if f != f {
		return "NaN"
	}
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func formatComplex(data uint32) string {
	f := float64(int32(data&0xffffff00)) / 256.0
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func dimensionUnit(data uint32) string {
	switch data & 0xf {
	case unitPX:
		return "px"
	case unitDP:
		return "dp"
	case unitSP:
		return "sp"
	case unitPT:
		return "pt"
	case unitIN:
		return "in"
	case unitMM:
		return "mm"
	default:
		return "unknown"
	}
}

func fractionUnit(data uint32) string {
	switch data & 0xf {
	case unitFraction:
		return "%"
	case unitFractionParent:
		return "%p"
	default:
		return "unknown"
	}
}

// readResValue reads a {size u16, res0 u8, data_type u8, data u32} record,
// which is the wire shape of resource_value in every context it appears
// (XML attribute values, resource table entries).
func readResValue(r *ByteReader) (ResourceValue, error) {
	if _, err := r.ReadU16(); err != nil { // size
		return ResourceValue{}, err
	}
	if _, err := r.ReadU8(); err != nil { // res0
		return ResourceValue{}, err
	}
	dataType, err := r.ReadU8()
	if err != nil {
		return ResourceValue{}, err
	}
	data, err := r.ReadU32()
	if err != nil {
		return ResourceValue{}, err
	}
	return ResourceValue{DataType: ResType(dataType), Data: uint32(data)}, nil
}
