package world

import "math"

// Grid constants: every map is split into GridsPerMap×GridsPerMap square cells.
const (
	// GridSize: размер ячейки в игровых единицах
	GridSize = 533.3333

	GridsPerMap = 64
	CenterGrid  = GridsPerMap / 2

	// MapHalfSize: координаты карты лежат в [-MapHalfSize, MapHalfSize)
	MapHalfSize = GridSize * CenterGrid
)

// CoordToGridIndex converts map coordinates to grid cell index.
// Formula: floor(CenterGrid - coord/GridSize)
func CoordToGridIndex(x, y float32) (gx, gy int32) {
	gx = int32(math.Floor(CenterGrid - float64(x)/GridSize))
	gy = int32(math.Floor(CenterGrid - float64(y)/GridSize))
	return gx, gy
}

// IsValidGridIndex checks if grid index is within map bounds
func IsValidGridIndex(gx, gy int32) bool {
	return gx >= 0 && gx < GridsPerMap && gy >= 0 && gy < GridsPerMap
}

// GridIndexToCoord converts grid index to map coordinates (center of the cell)
func GridIndexToCoord(gx, gy int32) (x, y float32) {
	x = float32((CenterGrid - float64(gx) - 0.5) * GridSize)
	y = float32((CenterGrid - float64(gy) - 0.5) * GridSize)
	return x, y
}
