package fields_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-dsfields/pkg/fields"
)

func TestGeoPointField_ProcessFormdata(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonicalises spacing", input: "12.34, -56.78", want: "12.34,-56.78"},
		{name: "no spaces", input: "0.5,0.25", want: "0.5,0.25"},
		{name: "missing comma", input: "12.34", wantErr: true},
		{name: "non numeric latitude", input: "north, 1.5", wantErr: true},
		{name: "non numeric longitude", input: "1.5, east", wantErr: true},
		{name: "extra comma", input: "1,2,3", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field, err := fields.NewGeoPointField("location")
			if err != nil {
				t.Fatalf("new geo point field: %v", err)
			}

			err = field.ProcessFormdata([]string{tc.input})
			if tc.wantErr {
				if !fields.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("process formdata: %v", err)
			}
			if got := field.Data(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGeoPointField_PreservesDecimalPrecision(t *testing.T) {
	field, err := fields.NewGeoPointField("location")
	if err != nil {
		t.Fatalf("new geo point field: %v", err)
	}

	// A float round trip would drift; the decimal string form must not.
	if err := field.ProcessFormdata([]string{"40.730610123456789, -73.935242987654321"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}
	want := "40.730610123456789,-73.935242987654321"
	if got := field.Data(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGeoPointField_RoundTrip(t *testing.T) {
	ctx := context.Background()
	field, err := fields.NewGeoPointField("location")
	if err != nil {
		t.Fatalf("new geo point field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"12.34, -56.78"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	var model struct {
		Location string
	}
	if err := field.PopulateObj(ctx, &model, "Location"); err != nil {
		t.Fatalf("populate obj: %v", err)
	}
	if model.Location != "12.34,-56.78" {
		t.Fatalf("unexpected stored value %q", model.Location)
	}

	reloaded, err := fields.NewGeoPointField("location")
	if err != nil {
		t.Fatalf("new geo point field: %v", err)
	}
	if err := reloaded.ProcessData(ctx, model.Location); err != nil {
		t.Fatalf("process data: %v", err)
	}
	if reloaded.Value() != "12.34,-56.78" {
		t.Fatalf("unexpected redisplay value %q", reloaded.Value())
	}
}
