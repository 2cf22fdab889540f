package route

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/cache"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/model"
	"github.com/roadwise/roadwise/utils"
	"github.com/tidwall/gjson"
)

// ErrPlaceNotFound is returned when a place name cannot be geocoded.
var ErrPlaceNotFound = errors.New("place not found")

var (
	coordinatesRe    = regexp.MustCompile(`^\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*$`)
	embeddedCoordsRe = regexp.MustCompile(`\(\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*\)`)
	mockOrigin       = model.Place{Name: "Mumbai, Maharashtra, India", Lat: 19.0760, Lon: 72.8777, AreaType: model.AreaUrban}
)

// ParseCoordinates accepts "lat,lon" or any text ending in "(lat, lon)", the
// form the browser client uses for GPS and map picks.
func ParseCoordinates(s string) (lat, lon float64, ok bool) {
	m := coordinatesRe.FindStringSubmatch(s)
	if m == nil {
		m = embeddedCoordsRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lon, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// AreaTypeForAddress classifies a Nominatim address: cities and towns are
// Urban, villages and hamlets Rural, anything else Suburban.
func AreaTypeForAddress(address gjson.Result) string {
	switch {
	case address.Get("city").Exists() || address.Get("town").Exists():
		return model.AreaUrban
	case address.Get("village").Exists() || address.Get("hamlet").Exists():
		return model.AreaRural
	default:
		return model.AreaSuburban
	}
}

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (model.Place, error)
}

// NominatimGeocoder talks to an OpenStreetMap Nominatim server.
type NominatimGeocoder struct {
	client *adapter.Client
	base   string
	cache  cache.Cache
	ttl    time.Duration
	mock   bool
}

var (
	_ Geocoder        = (*NominatimGeocoder)(nil)
	_ adapter.Adapter = (*NominatimGeocoder)(nil)
)

// NewNominatimGeocoder creates a geocoder. c may be nil to disable caching.
func NewNominatimGeocoder(client *adapter.Client, cfg config.ProviderConfig, c cache.Cache, ttl time.Duration, mock bool) *NominatimGeocoder {
	if c == nil {
		c = cache.Nop{}
	}
	return &NominatimGeocoder{client: client, base: strings.TrimRight(cfg.URL, "/"), cache: c, ttl: ttl, mock: mock}
}

func (g *NominatimGeocoder) ID() string { return "geocoder" }

func (g *NominatimGeocoder) Mock() bool { return g.mock }

// Resolve turns query into a place. Coordinates are parsed locally and then
// reverse geocoded for a name and area type; a failed reverse lookup keeps
// the coordinates as the name. Names are forward geocoded.
func (g *NominatimGeocoder) Resolve(ctx context.Context, query string) (model.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.Place{}, fmt.Errorf("%w: empty query", ErrPlaceNotFound)
	}

	if lat, lon, ok := ParseCoordinates(query); ok {
		place, err := g.Reverse(ctx, lat, lon)
		if err != nil {
			utils.WarnCtx(ctx, "reverse geocoding failed, using coordinates", "lat", lat, "lon", lon, "error", err)
			return model.Place{Name: fmt.Sprintf("%.4f, %.4f", lat, lon), Lat: lat, Lon: lon, AreaType: model.AreaUrban}, nil
		}
		return place, nil
	}

	if g.mock {
		place := mockOrigin
		place.Name = query
		return place, nil
	}

	key := "geocode:search:" + strings.ToLower(query)
	var place model.Place
	if err := cache.GetJSON(ctx, g.cache, key, &place); err == nil {
		return place, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	body, err := g.client.Get(ctx, g.base+"/search?"+params.Encode(), nil)
	if err != nil {
		return model.Place{}, fmt.Errorf("geocoding %q: %w", query, err)
	}

	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return model.Place{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, query)
	}
	place = model.Place{
		Name:     first.Get("display_name").String(),
		Lat:      first.Get("lat").Float(),
		Lon:      first.Get("lon").Float(),
		AreaType: AreaTypeForAddress(first.Get("address")),
	}
	g.store(ctx, key, place)
	return place, nil
}

// Reverse looks up the name and area type of a coordinate.
func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (model.Place, error) {
	if g.mock {
		return model.Place{Name: fmt.Sprintf("%.4f, %.4f", lat, lon), Lat: lat, Lon: lon, AreaType: model.AreaUrban}, nil
	}

	key := fmt.Sprintf("geocode:reverse:%.4f,%.4f", lat, lon)
	var place model.Place
	if err := cache.GetJSON(ctx, g.cache, key, &place); err == nil {
		return place, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")
	body, err := g.client.Get(ctx, g.base+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return model.Place{}, fmt.Errorf("reverse geocoding %.4f,%.4f: %w", lat, lon, err)
	}

	doc := gjson.ParseBytes(body)
	if msg := doc.Get("error"); msg.Exists() {
		return model.Place{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, msg.String())
	}
	place = model.Place{
		Name:     doc.Get("display_name").String(),
		Lat:      lat,
		Lon:      lon,
		AreaType: AreaTypeForAddress(doc.Get("address")),
	}
	if place.Name == "" {
		place.Name = fmt.Sprintf("%.4f, %.4f", lat, lon)
	}
	g.store(ctx, key, place)
	return place, nil
}

func (g *NominatimGeocoder) store(ctx context.Context, key string, place model.Place) {
	if err := cache.SetJSON(ctx, g.cache, key, place, g.ttl); err != nil {
		utils.WarnCtx(ctx, "failed to cache geocode result", "key", key, "error", err)
	}
}
