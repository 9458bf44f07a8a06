package serverpackets

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
)

const testUnit uint64 = 0xF130_0073_2800_0042

func opcodeOf(t *testing.T, data []byte) uint16 {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 2)
	return binary.LittleEndian.Uint16(data)
}

func TestTaxiNodeStatus_Write(t *testing.T) {
	tests := []struct {
		name   string
		status taxi.NodeStatus
	}{
		{"none", taxi.StatusNone},
		{"learned", taxi.StatusLearned},
		{"unlearned", taxi.StatusUnlearned},
		{"not eligible", taxi.StatusNotEligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewTaxiNodeStatus(testUnit, tt.status).Write()
			require.NoError(t, err)
			assert.Equal(t, uint16(OpcodeTaxiNodeStatus), opcodeOf(t, data))

			r := packet.NewReader(data[2:])
			var g packet.Guid
			require.NoError(t, r.ReadGuidMask(&g, 6, 2, 7, 5, 4, 1))
			status, err := r.ReadBits(2)
			require.NoError(t, err)
			require.NoError(t, r.ReadGuidMask(&g, 3, 0))
			require.NoError(t, r.ReadGuidBytes(&g, 0, 5, 2, 1, 4, 6, 7, 3))

			assert.Equal(t, uint32(tt.status), status)
			assert.Equal(t, testUnit, g.Uint64())
			assert.Zero(t, r.Remaining())
		})
	}
}

func TestTaxiNodeStatus_WireBytes(t *testing.T) {
	// Only byte 0 present: the mask run is 6,2,7,5,4,1 (all zero), status
	// Unlearned=0b10, then 3,0 → bits 0,0,0,0,0,0,1,0 | 0,1 + padding.
	data, err := NewTaxiNodeStatus(0x11, taxi.StatusUnlearned).Write()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x20, 0x02, 0x40, 0x10}, data)
}

func TestShowTaxiNodes_Write(t *testing.T) {
	var mask [taxi.MaskSize]byte
	mask[0] = 0x06
	mask[3] = 0x80

	data, err := NewShowTaxiNodes(testUnit, 2, mask).Write()
	require.NoError(t, err)
	assert.Equal(t, uint16(OpcodeShowTaxiNodes), opcodeOf(t, data))

	r := packet.NewReader(data[2:])
	show, err := r.ReadBit()
	require.NoError(t, err)
	require.True(t, show)

	var g packet.Guid
	require.NoError(t, r.ReadGuidMask(&g, 3, 0, 4, 2, 1, 7, 6, 5))
	size, err := r.ReadBits(taxiMaskSizeBits)
	require.NoError(t, err)
	assert.Equal(t, uint32(taxi.MaskSize), size)

	require.NoError(t, r.ReadGuidBytes(&g, 0, 3))
	node, err := r.ReadUInt32()
	require.NoError(t, err)
	require.NoError(t, r.ReadGuidBytes(&g, 5, 2, 6, 1, 7, 4))
	gotMask, err := r.ReadBytes(int(size))
	require.NoError(t, err)

	assert.Equal(t, testUnit, g.Uint64())
	assert.Equal(t, uint32(2), node)
	assert.Equal(t, mask[:], gotMask)
	assert.Zero(t, r.Remaining())
}

func TestShowTaxiNodes_Hidden(t *testing.T) {
	p := ShowTaxiNodes{Show: false}
	data, err := p.Write()
	require.NoError(t, err)

	// 2 opcode + 25 bits padded to 4 bytes + mask
	assert.Len(t, data, 2+4+taxi.MaskSize)
	r := packet.NewReader(data[2:])
	show, err := r.ReadBit()
	require.NoError(t, err)
	assert.False(t, show)
	size, err := r.ReadBits(taxiMaskSizeBits)
	require.NoError(t, err)
	assert.Equal(t, uint32(taxi.MaskSize), size)
}

func TestNewTaxiPath_Write(t *testing.T) {
	data, err := NewTaxiPath{}.Write()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x22, 0x20}, data)
}

func TestActivateTaxiReply_Write(t *testing.T) {
	tests := []struct {
		result taxi.ActivateResult
		want   byte
	}{
		{taxi.ActivateOK, 0x00},
		{taxi.ActivateNoSuchPath, 0x20},
		{taxi.ActivateTooFarAway, 0x40},
		{taxi.ActivateNotVisited, 0x60},
		{taxi.ActivatePlayerAlreadyMounted, 0x80},
		{taxi.ActivateNotStanding, 0xC0},
	}

	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			data, err := ActivateTaxiReply{Result: tt.result}.Write()
			require.NoError(t, err)
			assert.Equal(t, []byte{0x23, 0x20, tt.want}, data)
		})
	}
}

func TestNewWorld_Write(t *testing.T) {
	dst := taxi.Point{MapID: 1, X: 60, Y: -40.5, Z: 12}
	data, err := NewWorld{Destination: dst}.Write()
	require.NoError(t, err)
	require.Len(t, data, 18)
	assert.Equal(t, uint16(OpcodeNewWorld), opcodeOf(t, data))

	r := packet.NewReader(data[2:])
	mapID, _ := r.ReadUInt32()
	x, _ := r.ReadFloat32()
	y, _ := r.ReadFloat32()
	z, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, dst, taxi.Point{MapID: mapID, X: x, Y: y, Z: z})
}

func TestLayouts_Valid(t *testing.T) {
	layouts := map[string]packet.GuidLayout{
		"TaxiNodeStatus": TaxiNodeStatusLayout,
		"ShowTaxiNodes":  ShowTaxiNodesLayout,
	}
	for name, l := range layouts {
		assert.NoError(t, l.Validate(), name)
	}
}
