package model

// High parts of object guids. A player guid is its bare object id.
const (
	HighGuidPlayer = 0x0000
	HighGuidUnit   = 0xF130
)

// MakeCreatureGUID composes a creature guid from its template entry and object id.
func MakeCreatureGUID(entry, objectID uint32) uint64 {
	return uint64(HighGuidUnit)<<48 | uint64(entry&0xFFFF)<<32 | uint64(objectID)
}

// GUIDLow returns the object id part of a guid.
func GUIDLow(guid uint64) uint32 {
	return uint32(guid)
}

// GUIDHigh returns the high type part of a guid.
func GUIDHigh(guid uint64) uint16 {
	return uint16(guid >> 48)
}
