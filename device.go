package awair

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type kind string

const (
	kindLatest        kind = "latest"
	kindFiveMinute    kind = "5-min-avg"
	kindFifteenMinute kind = "15-min-avg"
	kindRaw           kind = "raw"
)

// Per-kind caps on the limit parameter and the from/to window.
var (
	maxLimit = map[kind]int{
		kindRaw:           360,
		kindFiveMinute:    288,
		kindFifteenMinute: 672,
	}

	maxWindow = map[kind]time.Duration{
		kindRaw:           time.Hour,
		kindFiveMinute:    24 * time.Hour,
		kindFifteenMinute: 168 * time.Hour,
	}
)

// deviceVariant supplies the two pieces that differ between cloud and local
// devices: where air-data lives and how data rows come back.
type deviceVariant interface {
	airDataBaseURL() string
	extractAirData(body []byte) ([]airDataRow, error)
	supportsFahrenheit() bool
}

// Device holds the metadata shared by cloud and local Awair devices and
// implements the air-data query pipeline. It is not used directly; the
// CloudDevice and LocalDevice variants pick the endpoint and response shape.
// Fields other than DeviceID, UUID and DeviceType are only populated for
// cloud devices with a configured location.
type Device struct {
	DeviceID   int
	UUID       string
	DeviceType string
	MACAddress *string

	Latitude   *float64
	Longitude  *float64
	Name       *string
	Preference *string
	RoomType   *string
	SpaceType  *string
	Timezone   *string

	client  *Client
	variant deviceVariant
}

// Model returns the human-friendly model name for this device's type,
// falling back to the raw type string for models this library predates.
func (d *Device) Model() string {
	if model, ok := awairModels[d.DeviceType]; ok {
		return model
	}
	return d.DeviceType
}

// AirDataLatest returns the most recent reading for this device. A nil
// record without an error means the device has been offline for the query
// window.
func (d *Device) AirDataLatest(ctx context.Context, opts ...QueryOption) (*AirData, error) {
	data, err := d.airData(ctx, kindLatest, opts)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	return &data[0], nil
}

// AirDataFiveMinute returns five-minute averages, up to 288 datapoints
// spanning at most 24 hours.
func (d *Device) AirDataFiveMinute(ctx context.Context, opts ...QueryOption) ([]AirData, error) {
	return d.airData(ctx, kindFiveMinute, opts)
}

// AirDataFifteenMinute returns fifteen-minute averages, up to 672
// datapoints spanning at most 7 days.
func (d *Device) AirDataFifteenMinute(ctx context.Context, opts ...QueryOption) ([]AirData, error) {
	return d.airData(ctx, kindFifteenMinute, opts)
}

// AirDataRaw returns per-second readings, up to 360 datapoints spanning at
// most 1 hour.
func (d *Device) AirDataRaw(ctx context.Context, opts ...QueryOption) ([]AirData, error) {
	return d.airData(ctx, kindRaw, opts)
}

func (d *Device) airData(ctx context.Context, kind kind, opts []QueryOption) ([]AirData, error) {
	var query airDataQuery
	for _, opt := range opts {
		opt(&query)
	}

	args, err := formatArgs(kind, query, d.variant.supportsFahrenheit())
	if err != nil {
		return nil, err
	}

	endpoint := d.variant.airDataBaseURL() + "/air-data/" + string(kind) + args

	body, err := d.client.Query(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	rows, err := d.variant.extractAirData(body)
	if err != nil {
		return nil, err
	}

	data := make([]AirData, 0, len(rows))
	for _, row := range rows {
		record, err := newAirData(row)
		if err != nil {
			return nil, err
		}
		data = append(data, record)
	}

	return data, nil
}

// QueryOption adjusts an air-data query.
type QueryOption func(*airDataQuery)

type airDataQuery struct {
	fahrenheit *bool
	desc       *bool
	limit      *int
	from       *time.Time
	to         *time.Time
}

// WithFahrenheit requests temperatures in fahrenheit instead of celsius.
// The conversion happens in the Awair API itself; local devices reject this
// option.
func WithFahrenheit(fahrenheit bool) QueryOption {
	return func(q *airDataQuery) { q.fahrenheit = &fahrenheit }
}

// WithDesc orders datapoints descending (true, the API default) or
// ascending (false) from the upper bound of the window.
func WithDesc(desc bool) QueryOption {
	return func(q *airDataQuery) { q.desc = &desc }
}

// WithLimit caps the number of datapoints returned.
func WithLimit(limit int) QueryOption {
	return func(q *airDataQuery) { q.limit = &limit }
}

// WithFrom sets the lower bound for the earliest datapoint to return.
func WithFrom(from time.Time) QueryOption {
	return func(q *airDataQuery) { q.from = &from }
}

// WithTo sets the upper bound for the most recent datapoint to return.
func WithTo(to time.Time) QueryOption {
	return func(q *airDataQuery) { q.to = &to }
}

// formatArgs validates the query options for kind and serializes them into
// a query string. Every validation failure surfaces here, before any
// network I/O happens.
func formatArgs(kind kind, query airDataQuery, fahrenheitSupported bool) (string, error) {
	if query.fahrenheit != nil && !fahrenheitSupported {
		// Passing any unit parameter to a local sensor causes it to return
		// an empty timestamp, and its firmware cannot convert units anyway.
		return "", newError(ErrQuery, "fahrenheit is not supported for local sensors")
	}

	values := url.Values{}

	if query.fahrenheit != nil {
		values.Set("fahrenheit", strconv.FormatBool(*query.fahrenheit))
	}
	if query.desc != nil {
		values.Set("desc", strconv.FormatBool(*query.desc))
	}

	if query.limit != nil {
		limit := *query.limit
		if limit < 1 {
			return "", newError(ErrQuery, fmt.Sprintf("limit must be at least 1, got %d", limit))
		}
		if upper, ok := maxLimit[kind]; ok && limit > upper {
			return "", newError(ErrQuery, fmt.Sprintf("limit must be at most %d for %s queries, got %d", upper, kind, limit))
		}
		values.Set("limit", strconv.Itoa(limit))
	}

	window, ok := maxWindow[kind]
	if !ok {
		window = 24 * time.Hour
	}

	// The window is always validated against a trailing range ending now,
	// even when only one bound was supplied.
	now := time.Now()
	from := now.Add(-window)
	if query.from != nil {
		from = *query.from
	}
	to := now
	if query.to != nil {
		to = *query.to
	}

	if from.After(now) || to.After(now) {
		return "", newError(ErrQuery, "dates cannot be in the future")
	}
	if from.After(to) {
		return "", newError(ErrQuery, "'from' cannot be greater than 'to'")
	}
	if to.Sub(from) > window {
		return "", newError(ErrQuery, fmt.Sprintf("difference between 'from' and 'to' must be at most %s for %s queries", window, kind))
	}

	if query.from != nil {
		values.Set("from", from.UTC().Format(dateFormat))
	}
	if query.to != nil {
		values.Set("to", to.UTC().Format(dateFormat))
	}

	if len(values) == 0 {
		return "", nil
	}

	return "?" + values.Encode(), nil
}

// cloudDeviceAttrs is one entry of the /users/self/devices response.
type cloudDeviceAttrs struct {
	DeviceID   int      `json:"deviceId"`
	DeviceUUID string   `json:"deviceUUID"`
	DeviceType string   `json:"deviceType"`
	MACAddress *string  `json:"macAddress"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Name       *string  `json:"name"`
	Preference *string  `json:"preference"`
	RoomType   *string  `json:"roomType"`
	SpaceType  *string  `json:"spaceType"`
	Timezone   *string  `json:"timezone"`
}

// CloudDevice is an Awair device queried through the hosted API.
type CloudDevice struct {
	Device
}

func newCloudDevice(client *Client, attrs cloudDeviceAttrs) *CloudDevice {
	device := &CloudDevice{
		Device: Device{
			DeviceID:   attrs.DeviceID,
			UUID:       attrs.DeviceUUID,
			DeviceType: attrs.DeviceType,
			MACAddress: attrs.MACAddress,
			Latitude:   attrs.Latitude,
			Longitude:  attrs.Longitude,
			Name:       attrs.Name,
			Preference: attrs.Preference,
			RoomType:   attrs.RoomType,
			SpaceType:  attrs.SpaceType,
			Timezone:   attrs.Timezone,
			client:     client,
		},
	}
	device.variant = device

	return device
}

func (d *CloudDevice) airDataBaseURL() string {
	return strings.Join([]string{deviceURL, d.DeviceType, strconv.Itoa(d.DeviceID)}, "/")
}

func (d *CloudDevice) extractAirData(body []byte) ([]airDataRow, error) {
	var envelope struct {
		Data []airDataRow `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to unmarshal air data: %v", err))
	}

	return envelope.Data, nil
}

func (d *CloudDevice) supportsFahrenheit() bool { return true }

// localConfigAttrs is the response of a device's /settings/config/data
// endpoint. Local firmware reports identity differently than the cloud API.
type localConfigAttrs struct {
	DeviceUUID string  `json:"device_uuid"`
	WifiMAC    *string `json:"wifi_mac"`
	FWVersion  string  `json:"fw_version"`
}

// LocalDevice is an Awair device queried directly over the local network
// via its embedded HTTP server.
type LocalDevice struct {
	Device

	// DeviceAddr is the DNS or IP address of the device.
	DeviceAddr string

	// FWVersion is the firmware version currently running on the device.
	FWVersion string
}

func newLocalDevice(client *Client, deviceAddr string, attrs localConfigAttrs) (*LocalDevice, error) {
	// The local config endpoint reports a single "device_uuid" of the form
	// "{type}_{id}" instead of separate type and id fields.
	deviceType, idPart, found := strings.Cut(attrs.DeviceUUID, "_")
	if !found {
		return nil, newError(ErrGeneric, fmt.Sprintf("unexpected device_uuid %q", attrs.DeviceUUID))
	}

	deviceID, err := strconv.Atoi(idPart)
	if err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("unexpected device_uuid %q", attrs.DeviceUUID))
	}

	device := &LocalDevice{
		Device: Device{
			DeviceID:   deviceID,
			UUID:       attrs.DeviceUUID,
			DeviceType: deviceType,
			MACAddress: attrs.WifiMAC,
			client:     client,
		},
		DeviceAddr: deviceAddr,
		FWVersion:  attrs.FWVersion,
	}
	device.variant = device

	return device, nil
}

func (d *LocalDevice) airDataBaseURL() string {
	return "http://" + d.DeviceAddr
}

// extractAirData reshapes the flat local response into the cloud row shape:
// every numeric key other than timestamp/score becomes a sensor entry.
func (d *LocalDevice) extractAirData(body []byte) ([]airDataRow, error) {
	var flat map[string]any
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to unmarshal air data: %v", err))
	}

	var row airDataRow
	if timestamp, ok := flat["timestamp"].(string); ok {
		row.Timestamp = timestamp
	}
	if score, ok := flat["score"].(float64); ok {
		row.Score = score
	}

	for key, value := range flat {
		if key == "timestamp" || key == "score" {
			continue
		}
		number, ok := value.(float64)
		if !ok {
			continue
		}
		row.Sensors = append(row.Sensors, component{Comp: key, Value: number})
	}

	return []airDataRow{row}, nil
}

func (d *LocalDevice) supportsFahrenheit() bool { return false }
