package survey

import (
	"encoding/binary"
	"math"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ReduceShot converts one shot's polar measurements into a Cartesian
// displacement (east, north, up). Angles are in degrees. A shot missing any
// of the three readings contributes no displacement.
func ReduceShot(distance, azimuthDeg, inclinationDeg *float64) (east, north, up float64) {
	if distance == nil || azimuthDeg == nil || inclinationDeg == nil {
		return 0, 0, 0
	}

	incRad := *inclinationDeg * math.Pi / 180
	azRad := *azimuthDeg * math.Pi / 180

	horizontal := *distance * math.Cos(incRad)

	east = horizontal * math.Sin(azRad)
	north = horizontal * math.Cos(azRad)
	up = *distance * math.Sin(incRad)
	return east, north, up
}

// AzimuthVariance is the angular disagreement between a frontsight and its
// backsight, which should point 180° apart. The wrap-around cases keep
// readings like fs=1/bs=181 and fs=359/bs=179 both at zero variance.
// Returns nil when either reading is absent.
func AzimuthVariance(fs, bs *float64) *float64 {
	if fs == nil || bs == nil {
		return nil
	}
	d := math.Abs(*fs - *bs)
	v := math.Min(math.Abs(d-180), math.Min(math.Abs(d-180+360), math.Abs(d-180-360)))
	return &v
}

// InclinationVariance measures frontsight/backsight disagreement for
// inclinometer readings, which should be near-opposite in sign. Returns nil
// when either reading is absent.
func InclinationVariance(fs, bs *float64) *float64 {
	if fs == nil || bs == nil {
		return nil
	}
	v := math.Abs(*fs + *bs)
	return &v
}

// Centerline chains the reduced shot displacements from a local origin into
// a 3D line string and returns its WKB encoding. Shots with incomplete
// geometry repeat the previous station. Returns nil for an empty shot list.
func Centerline(shots []ShotRecord) ([]byte, error) {
	if len(shots) == 0 {
		return nil, nil
	}

	coords := make([]geom.Coord, 0, len(shots)+1)
	var x, y, z float64
	coords = append(coords, geom.Coord{x, y, z})
	for _, s := range shots {
		east, north, up := ReduceShot(s.Distance, s.AzimuthFs, s.InclinationFs)
		x += east
		y += north
		z += up
		coords = append(coords, geom.Coord{x, y, z})
	}

	ls, err := geom.NewLineString(geom.XYZ).SetCoords(coords)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

// CenterlineGeoJSON converts stored WKB centerline bytes into a GeoJSON string.
func CenterlineGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
