package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GeoPointField maps a geographic point property to a single text input of
// the form "<lat>, <lon>". Components are parsed as exact decimals and the
// stored value is the canonical "<lat>,<lon>" decimal string, never a
// float, so coordinates survive round trips without precision drift.
type GeoPointField struct {
	textCore

	data string
}

// NewGeoPointField constructs a geo point field.
func NewGeoPointField(name string, opts ...Option) (*GeoPointField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: geo point field name is required")
	}
	return &GeoPointField{textCore: newTextCore(name, buildConfig(opts))}, nil
}

// Data returns the canonical coordinate string, empty when unset.
func (f *GeoPointField) Data() string { return f.data }

// ProcessData seeds the field from a stored coordinate string.
func (f *GeoPointField) ProcessData(_ context.Context, value any) error {
	switch v := value.(type) {
	case nil:
		f.data = ""
		return nil
	case string:
		f.data = v
		return nil
	default:
		return fmt.Errorf("fields: geo point field %q: cannot process %T", f.name, value)
	}
}

// ProcessFormdata parses the submitted coordinate text. A missing comma or
// a non-decimal component fails the whole field with a single validation
// error.
func (f *GeoPointField) ProcessFormdata(values []string) error {
	if len(values) == 0 {
		return nil
	}
	f.raw = values

	lat, lon, ok := strings.Cut(values[0], ",")
	if !ok {
		return ErrInvalidGeoPoint
	}
	latDec, err := decimal.NewFromString(strings.TrimSpace(lat))
	if err != nil {
		return ErrInvalidGeoPoint
	}
	lonDec, err := decimal.NewFromString(strings.TrimSpace(lon))
	if err != nil {
		return ErrInvalidGeoPoint
	}
	f.data = latDec.String() + "," + lonDec.String()
	return nil
}

// PreValidate is a no-op; parsing already happened in ProcessFormdata.
func (f *GeoPointField) PreValidate(context.Context) error { return nil }

// PopulateObj writes the canonical coordinate string onto the target
// attribute.
func (f *GeoPointField) PopulateObj(_ context.Context, obj any, name string) error {
	return setAttr(obj, name, f.data)
}

// Value returns the text input redisplay value, raw submission first.
func (f *GeoPointField) Value() string {
	if len(f.raw) > 0 {
		return f.raw[0]
	}
	return f.data
}
