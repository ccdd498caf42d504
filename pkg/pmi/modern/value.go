package modern

// Data type tags for the tagged union carried by pmixValue.Type, mirroring
// pmix_data_type_t. Only the subset this client ever boxes, unboxes or
// coerces through convertInt is named; everything else (string, proc and
// the rest of the real enum) falls to convertInt's default case.
const (
	typeUndef  uint16 = 0
	typeBool   uint16 = 1
	typeByte   uint16 = 2
	typeString uint16 = 3
	typeSize   uint16 = 4
	typePID    uint16 = 5
	typeInt    uint16 = 6
	typeInt8   uint16 = 7
	typeInt16  uint16 = 8
	typeInt32  uint16 = 9
	typeInt64  uint16 = 10
	typeUint   uint16 = 11
	typeUint8  uint16 = 12
	typeUint16 uint16 = 13
	typeUint32 uint16 = 14
	typeUint64 uint16 = 15
	typeProc   uint16 = 34
)

// Scope values for PMIx_Put, mirroring pmix_scope_t.
const (
	scopeUndef    uint32 = 0
	scopeLocal    uint32 = 1
	scopeRemote   uint32 = 2
	scopeGlobal   uint32 = 3
	scopeInternal uint32 = 4
)

// convertInt narrows a boxed pmixValue into a host int, the same coercion
// the original convert_int performs over every scalar numeric pmix_value_t
// kind: signed and unsigned 8/16/32/64-bit and native widths, byte, size,
// pid and bool. Any non-scalar type (string, proc, arrays, ...) is not a
// recognized numeric kind and returns ok == false rather than guessing.
func convertInt(val *pmixValue) (int, bool) {
	switch val.Type {
	case typeBool:
		if val.boolValue() {
			return 1, true
		}
		return 0, true
	case typeByte:
		return int(val.Data[0]), true
	case typeSize, typePID:
		return int(val.uint64Value()), true
	case typeInt, typeInt32:
		return int(val.intValue()), true
	case typeInt8:
		return int(int8(val.Data[0])), true
	case typeInt16:
		return int(int16(val.uint16Value())), true
	case typeInt64:
		return int(val.int64Value()), true
	case typeUint, typeUint32:
		return int(val.uint32Value()), true
	case typeUint8:
		return int(val.Data[0]), true
	case typeUint16:
		return int(val.uint16Value()), true
	case typeUint64:
		return int(val.uint64Value()), true
	default:
		return 0, false
	}
}
