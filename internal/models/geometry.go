package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// GeoJSONPolygon represents a GeoJSON Polygon type for API input/output
type GeoJSONPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// Value implements the driver.Valuer interface for GeoJSONPolygon.
// Converts GeoJSON to WKT with an SRID prefix for PostGIS GEOGRAPHY(Polygon, 4326).
//
// Flow: GeoJSON -> geom.Polygon -> "SRID=4326;POLYGON((...))"
func (g *GeoJSONPolygon) Value() (driver.Value, error) {
	if g == nil || g.Type == "" {
		return nil, nil
	}

	geoJSONBytes, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	var geometry geom.T
	if err := geojson.Unmarshal(geoJSONBytes, &geometry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GeoJSON: %w", err)
	}

	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Polygon")
	}

	polygon.SetSRID(4326)

	wktString, err := wkt.Marshal(polygon)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to WKT: %w", err)
	}

	return fmt.Sprintf("SRID=%d;%s", polygon.SRID(), wktString), nil
}

// Scan implements the sql.Scanner interface for GeoJSONPolygon.
// Converts PostGIS EWKB output (ST_AsBinary) back to GeoJSON.
func (g *GeoJSONPolygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan GeoJSONPolygon: expected []byte, got %T", value)
	}

	geometry, err := ewkb.Unmarshal(bytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal EWKB: %w", err)
	}

	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return fmt.Errorf("scanned geometry is not a Polygon")
	}

	geoJSONBytes, err := geojson.Marshal(polygon)
	if err != nil {
		return fmt.Errorf("failed to marshal to GeoJSON: %w", err)
	}

	return json.Unmarshal(geoJSONBytes, g)
}

// GeoJSONPoint represents a GeoJSON Point type for API input/output
type GeoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Value implements the driver.Valuer interface for GeoJSONPoint.
// Converts GeoJSON to WKT with an SRID prefix for PostGIS GEOGRAPHY(Point, 4326).
func (g *GeoJSONPoint) Value() (driver.Value, error) {
	if g == nil || g.Type == "" {
		return nil, nil
	}

	geoJSONBytes, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	var geometry geom.T
	if err := geojson.Unmarshal(geoJSONBytes, &geometry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal GeoJSON: %w", err)
	}

	point, ok := geometry.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Point")
	}

	point.SetSRID(4326)

	wktString, err := wkt.Marshal(point)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to WKT: %w", err)
	}

	return fmt.Sprintf("SRID=%d;%s", point.SRID(), wktString), nil
}

// Scan implements the sql.Scanner interface for GeoJSONPoint.
func (g *GeoJSONPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan GeoJSONPoint: expected []byte, got %T", value)
	}

	geometry, err := ewkb.Unmarshal(bytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal EWKB: %w", err)
	}

	point, ok := geometry.(*geom.Point)
	if !ok {
		return fmt.Errorf("scanned geometry is not a Point")
	}

	geoJSONBytes, err := geojson.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal to GeoJSON: %w", err)
	}

	return json.Unmarshal(geoJSONBytes, g)
}

// PointFromEWKB converts a PostGIS ST_AsBinary result into a GeoJSON point.
// Nil input yields nil output.
func PointFromEWKB(data []byte) (*GeoJSONPoint, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var p GeoJSONPoint
	if err := p.Scan(data); err != nil {
		return nil, err
	}
	return &p, nil
}

// PolygonFromEWKB converts a PostGIS ST_AsBinary result into a GeoJSON
// polygon. Nil input yields nil output.
func PolygonFromEWKB(data []byte) (*GeoJSONPolygon, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var p GeoJSONPolygon
	if err := p.Scan(data); err != nil {
		return nil, err
	}
	return &p, nil
}

// DefaultPoint returns the degenerate fallback location used when no
// geometry is available for an entity that requires one.
func DefaultPoint() *GeoJSONPoint {
	return &GeoJSONPoint{Type: "Point", Coordinates: []float64{0, 0}}
}

// ParseGeoJSONPoint accepts a GeoJSON Point either as an object or as a
// JSON-encoded string and validates its structure.
func ParseGeoJSONPoint(raw json.RawMessage) (*GeoJSONPoint, error) {
	data, err := normalizeGeoJSON(raw)
	if err != nil {
		return nil, err
	}
	var p GeoJSONPoint
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &GeometryError{Reason: fmt.Sprintf("invalid point geometry: %v", err)}
	}
	if p.Type != "Point" {
		return nil, &GeometryError{Reason: fmt.Sprintf("expected geometry type Point, got %q", p.Type)}
	}
	if len(p.Coordinates) < 2 {
		return nil, &GeometryError{Reason: "point geometry requires at least 2 coordinates"}
	}
	return &p, nil
}

// ParseGeoJSONPolygon accepts a GeoJSON Polygon either as an object or as a
// JSON-encoded string and validates its structure.
func ParseGeoJSONPolygon(raw json.RawMessage) (*GeoJSONPolygon, error) {
	data, err := normalizeGeoJSON(raw)
	if err != nil {
		return nil, err
	}
	var p GeoJSONPolygon
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &GeometryError{Reason: fmt.Sprintf("invalid polygon geometry: %v", err)}
	}
	if p.Type != "Polygon" {
		return nil, &GeometryError{Reason: fmt.Sprintf("expected geometry type Polygon, got %q", p.Type)}
	}
	if len(p.Coordinates) == 0 || len(p.Coordinates[0]) < 4 {
		return nil, &GeometryError{Reason: "polygon geometry requires a closed ring of at least 4 positions"}
	}
	ring := p.Coordinates[0]
	first, last := ring[0], ring[len(ring)-1]
	if len(first) < 2 || len(last) < 2 {
		return nil, &GeometryError{Reason: "polygon positions require at least 2 coordinates"}
	}
	if first[0] != last[0] || first[1] != last[1] {
		return nil, &GeometryError{Reason: "polygon ring is not closed: first and last positions differ"}
	}
	return &p, nil
}

// normalizeGeoJSON unwraps the string form ("{\"type\":...}") into the
// object form and checks the minimal GeoJSON structure.
func normalizeGeoJSON(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, &GeometryError{Reason: "empty geometry payload"}
	}

	data := []byte(raw)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil, &GeometryError{Reason: fmt.Sprintf("invalid geometry string: %v", err)}
		}
		data = []byte(unquoted)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &GeometryError{Reason: fmt.Sprintf("geometry is not a JSON object: %v", err)}
	}
	if _, ok := probe["type"]; !ok {
		return nil, &GeometryError{Reason: "GeoJSON must have 'type' field"}
	}
	if _, ok := probe["coordinates"]; !ok {
		return nil, &GeometryError{Reason: "GeoJSON must have 'coordinates' field"}
	}
	return data, nil
}
