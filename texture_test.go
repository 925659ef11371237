package pixiled

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/owlpinetech/flatsphere"
	"github.com/owlpinetech/healpix"
	"golang.org/x/exp/maps"
)

func TestTextureOpen(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_basic_open")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	testCases := []struct {
		name     string
		indexer  LocationIndexer
		metadata map[string]string
		proj     flatsphere.Projection
	}{
		{"mercatortagless", NewMercatorCutoffIndexer(math.Pi/4, -math.Pi/4, 10, 10, true), map[string]string{}, flatsphere.NewMercator()},
		{"cyleqtags", NewCylindricalEquirectangularIndexer(0, 10, 10, true), map[string]string{"one": "fish", "two": "fish"}, flatsphere.NewEquirectangular(0)},
		{"healpixtagged", NewFlatHealpixIndexer(2, healpix.NestScheme), map[string]string{"hello": "there"}, flatsphere.NewHEALPixStandard()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orig, err := NewTexture(filepath.Join(dir, tc.name), tc.indexer, NewChannelEncoded("dummy", ChannelTypeFloat32, Value{1, 2, 3, 4}))
			if err != nil {
				t.Fatal(err)
			}
			for k, v := range tc.metadata {
				if err := orig.SetMetadata(k, v); err != nil {
					t.Fatal(err)
				}
			}
			if orig.Metadata[IndexerKey] != tc.indexer.Name() {
				t.Errorf("expected indexer metadata %s, got %s", tc.indexer.Name(), orig.Metadata[IndexerKey])
			}
			if _, ok := orig.Metadata[CreatedAt]; !ok {
				t.Errorf("expected creation time in metadata")
			}

			tex, err := OpenTexture(filepath.Join(dir, tc.name))
			if err != nil {
				t.Fatal(err)
			}
			if !maps.Equal(tex.Metadata, orig.Metadata) {
				t.Errorf("expected texture metadata %v, got %v", orig.Metadata, tex.Metadata)
			}
			if tex.IndexerSpec != orig.IndexerSpec {
				t.Errorf("expected texture indexer %+v, got %+v", orig.IndexerSpec, tex.IndexerSpec)
			}
			if tex.Indexer.Size() != orig.Indexer.Size() {
				t.Errorf("expected texture indexer size %d, got %d", orig.Indexer.Size(), tex.Indexer.Size())
			}
			if tex.Indexer.Projection() == nil {
				t.Errorf("projection not present for deserialized texture")
			}

			if reflect.TypeOf(orig.Indexer) != reflect.TypeOf(tex.Indexer) {
				t.Errorf("expected indexer type %T, got %T", orig.Indexer, tex.Indexer)
			}
			if reflect.TypeOf(tc.proj) != reflect.TypeOf(tex.Indexer.Projection()) {
				t.Errorf("expected projection type %T, got %T", tc.proj, tex.Indexer.Projection())
			}
		})
	}
}

func TestTextureQuery(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_basic_query")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tex, err := NewTexture(filepath.Join(dir, "querytex"), NewFlatHealpixIndexer(2, healpix.NestScheme),
		NewChannelFloat32("ch1", 3),
		NewChannelUint16("ch2", 6))
	if err != nil {
		t.Fatal(err)
	}

	res, err := tex.Get([]string{"ch1"}, IndexLocation(0), IndexLocation(1), IndexLocation(2))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range res.Channels {
		if c.Name != "ch1" {
			t.Errorf("expected channel name to be ch1, got %s", c.Name)
		}
	}
	if len(res.Rows) != 3 {
		t.Errorf("expected to get 3 result rows, got %d", len(res.Rows))
	}
	for _, r := range res.Rows {
		if r[0].AsFloat32() != 3 {
			t.Errorf("expected row to equal 3, got %g", r[0].AsFloat32())
		}
	}

	res, err = tex.Get([]string{"ch2"}, IndexLocation(3), IndexLocation(4), IndexLocation(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 3 {
		t.Errorf("expected to get 3 result rows, got %d", len(res.Rows))
	}
	for _, r := range res.Rows {
		if r[0].AsUint16() != 6 {
			t.Errorf("expected row to equal 6, got %d", r[0].AsUint16())
		}
	}

	var channelErr *ChannelNotFoundError
	if _, err := tex.Get([]string{"ch3"}, IndexLocation(0)); !errors.As(err, &channelErr) {
		t.Errorf("expected channel not found error, got %v", err)
	}
	var boundsErr LocationOutOfBoundsError
	if _, err := tex.Get([]string{"ch1"}, IndexLocation(tex.Indexer.Size())); !errors.As(err, &boundsErr) {
		t.Errorf("expected out of bounds error, got %v", err)
	}
}

func TestTextureSetPersist(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_set_persist")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "settex")
	tex, err := NewTexture(path, NewProjectionlessIndexer(8, 4, true),
		NewChannelUint8("a", 1),
		NewChannelFloat64("b", 2))
	if err != nil {
		t.Fatal(err)
	}

	locations := []Location{GridLocation{0, 0}, GridLocation{7, 3}, IndexLocation(9)}
	values := [][]Value{
		{NewFloat64Value(0.5), NewUint8Value(10)},
		{NewFloat64Value(-1), NewUint8Value(20)},
		{NewFloat64Value(9), NewUint8Value(30)},
	}
	n, err := tex.Set([]string{"b", "a"}, locations, values)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(locations) {
		t.Errorf("expected %d locations written, got %d", len(locations), n)
	}
	if err := tex.SetValue("a", GridLocation{1, 0}, NewUint8Value(99)); err != nil {
		t.Fatal(err)
	}
	if err := tex.Checkpoint(); err != nil {
		t.Fatal(err)
	}

	saved, err := OpenTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := saved.Get([]string{"a", "b"}, append(locations, GridLocation{1, 0}, GridLocation{4, 2})...)
	if err != nil {
		t.Fatal(err)
	}
	expectA := []uint8{10, 20, 30, 99, 1}
	expectB := []float64{0.5, -1, 9, 2, 2}
	for i, r := range res.Rows {
		if r[0].AsUint8() != expectA[i] || r[1].AsFloat64() != expectB[i] {
			t.Errorf("expected row %d to hold %d and %g, got %d and %g", i, expectA[i], expectB[i], r[0].AsUint8(), r[1].AsFloat64())
		}
	}

	// a failing location stops the write and reports progress
	n, err = saved.Set([]string{"a"}, []Location{IndexLocation(2), GridLocation{8, 0}}, [][]Value{{NewUint8Value(5)}, {NewUint8Value(6)}})
	if n != 1 || err == nil {
		t.Errorf("expected one location written before an error, got %d and %v", n, err)
	}
}

func TestTexturePaintAndSample(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_paint")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tex, err := NewTexture(filepath.Join(dir, "sky"), NewCylindricalEquirectangularIndexer(0, 36, 18, true), RGBChannels()...)
	if err != nil {
		t.Fatal(err)
	}

	colour := RGB{R: 255, G: 64, B: 7}
	if err := tex.Paint(Cartesian{0, 0, 1}, colour); err != nil {
		t.Fatal(err)
	}

	// anything along the same direction samples the same texel
	pixel, err := NewCoordinate(WithOrigin(Cartesian{0, 0, 2}), WithLocalSpherical(Spherical{R: 3, Theta: 0, Phi: 0}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := tex.Sample(pixel)
	if err != nil {
		t.Fatal(err)
	}
	if got != colour {
		t.Errorf("expected %v overhead, got %v", colour, got)
	}

	got, err = tex.Sample(Cartesian{0, 0, -1})
	if err != nil {
		t.Fatal(err)
	}
	if got != (RGB{}) {
		t.Errorf("expected black underfoot, got %v", got)
	}
}

func TestTextureSampleNeedsColourChannels(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_no_colour")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tex, err := NewTexture(filepath.Join(dir, "mono"), NewProjectionlessIndexer(2, 2, true), NewChannelUint8("w", 0))
	if err != nil {
		t.Fatal(err)
	}
	var channelErr *ChannelNotFoundError
	if _, err := tex.Sample(IndexLocation(0)); !errors.As(err, &channelErr) {
		t.Errorf("expected channel not found error, got %v", err)
	}
}

func TestTextureSetRejectsMismatchedValues(t *testing.T) {
	dir, err := os.MkdirTemp(".", "pixiled_texture_mismatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tex, err := NewTexture(filepath.Join(dir, "rgb"), NewProjectionlessIndexer(2, 2, true), RGBChannels()...)
	if err != nil {
		t.Fatal(err)
	}
	before, err := tex.Sample(GridLocation{0, 0})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name      string
		channels  []string
		locations []Location
		values    [][]Value
	}{
		{"wide value", []string{"r"}, []Location{GridLocation{0, 0}}, [][]Value{{NewUint16Value(0x1234)}}},
		{"short value", []string{"r", "g"}, []Location{GridLocation{0, 0}}, [][]Value{{NewUint8Value(9), Value{}}}},
		{"missing value row", []string{"r"}, []Location{GridLocation{0, 0}, GridLocation{1, 1}}, [][]Value{{NewUint8Value(9)}}},
		{"extra value row", []string{"r"}, []Location{GridLocation{0, 0}}, [][]Value{{NewUint8Value(9)}, {NewUint8Value(9)}}},
		{"short value row", []string{"r", "g"}, []Location{GridLocation{0, 0}}, [][]Value{{NewUint8Value(9)}}},
		{"long value row", []string{"r"}, []Location{GridLocation{0, 0}}, [][]Value{{NewUint8Value(9), NewUint8Value(9)}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var configErr *ConfigError
			written, err := tex.Set(tc.channels, tc.locations, tc.values)
			if !errors.As(err, &configErr) {
				t.Fatalf("expected config error, got %v", err)
			}
			if written != 0 {
				t.Errorf("expected no locations written, got %d", written)
			}
			after, err := tex.Sample(GridLocation{0, 0})
			if err != nil {
				t.Fatal(err)
			}
			if after != before {
				t.Errorf("expected colour %v to be untouched, got %v", before, after)
			}
		})
	}
}
