package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineItem struct {
	SKU       string     `json:"sku"`
	Quantity  int        `json:"quantity"`
	ShippedAt *time.Time `json:"shippedAt,omitempty"`
}

type window struct {
	Start time.Time `json:"start"`
}

type order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId"`
	CreatedAt   time.Time   `json:"createdAt"`
	DeliveredAt *time.Time  `json:"deliveredAt,omitempty"`
	Items       []lineItem  `json:"items"`
	Window      window      `json:"window"`
	Reminders   []time.Time `json:"reminders,omitempty"`
	Total       float64     `json:"total"`
}

var orderFields = []string{
	"createdAt",
	"deliveredAt",
	"items[].shippedAt",
	"window.start",
	"reminders[]",
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func sampleOrders() []order {
	return []order{
		{
			ID:          "1",
			CustomerID:  "c1",
			CreatedAt:   at("2024-01-10T09:30:00Z"),
			DeliveredAt: ptr(at("2024-01-12T17:00:00.123Z")),
			Items: []lineItem{
				{SKU: "A", Quantity: 2, ShippedAt: ptr(at("2024-01-11T08:00:00Z"))},
				{SKU: "B", Quantity: 1},
			},
			Window:    window{Start: at("2024-01-12T08:00:00Z")},
			Reminders: []time.Time{at("2024-01-09T00:00:00Z")},
			Total:     149.5,
		},
		{
			ID:         "2",
			CustomerID: "c2",
			CreatedAt:  at("2024-02-01T00:00:00Z"),
			Items:      []lineItem{},
			Window:     window{Start: at("2024-02-02T00:00:00Z")},
		},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec[order](orderFields...)
	require.NoError(t, err)

	for name, items := range map[string][]order{
		"sample": sampleOrders(),
		"empty":  {},
	} {
		t.Run(name, func(t *testing.T) {
			blob, err := codec.Encode(items)
			require.NoError(t, err)

			decoded, err := codec.Decode(blob)
			require.NoError(t, err)
			assert.Equal(t, items, decoded)
		})
	}
}

func TestCodec_EncodeNil(t *testing.T) {
	blob, err := MustCodec[order]().Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
}

func TestCodec_DecodeBrowserForms(t *testing.T) {
	codec := MustCodec[order](orderFields...)

	// What JSON.stringify produces in a browser, plus the shorter forms
	// new Date() accepts and older blobs may contain.
	blob := `[{
		"id": "1",
		"createdAt": "2024-01-10T00:00:00.000Z",
		"deliveredAt": null,
		"items": [{"sku": "A", "quantity": 1, "shippedAt": "2024-01-11"}, {"sku": "B", "quantity": 1, "shippedAt": null}],
		"window": {"start": "2024-01-12T08:00:00"},
		"reminders": [1704844800000],
		"extra": "ignored"
	}]`

	items, err := codec.Decode(blob)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, got.DeliveredAt)
	require.NotNil(t, got.Items[0].ShippedAt)
	assert.True(t, got.Items[0].ShippedAt.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, got.Items[1].ShippedAt)
	assert.True(t, got.Window.Start.Equal(time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)))
	require.Len(t, got.Reminders, 1)
	assert.True(t, got.Reminders[0].Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
}

func TestCodec_DecodeMissingOptionalContainers(t *testing.T) {
	codec := MustCodec[order](orderFields...)

	items, err := codec.Decode(`[{"id":"1","createdAt":"2024-01-10T00:00:00Z","items":null}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Items)
	assert.True(t, items[0].Window.Start.IsZero())
}

func TestCodec_DecodeCorrupt(t *testing.T) {
	codec := MustCodec[order](orderFields...)

	cases := map[string]string{
		"not json":          `{not json`,
		"empty string":      ``,
		"null":              `null`,
		"object":            `{"id":"1"}`,
		"trailing data":     `[] []`,
		"bad date":          `[{"id":"1","createdAt":"yesterday"}]`,
		"date as bool":      `[{"id":"1","createdAt":true}]`,
		"items not array":   `[{"id":"1","createdAt":"2024-01-10","items":{}}]`,
		"nested bad date":   `[{"id":"1","createdAt":"2024-01-10","items":[{"shippedAt":"soon"}]}]`,
		"element not obj":   `["1"]`,
		"wrong field types": `[{"id":1,"createdAt":"2024-01-10"}]`,
	}

	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(blob)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptPersistedData), "got %v", err)
		})
	}
}

func TestCodec_DecodeOne(t *testing.T) {
	codec := MustCodec[order](orderFields...)

	o, err := codec.DecodeOne([]byte(`{"id":"9","createdAt":"2024-03-01"}`))
	require.NoError(t, err)
	assert.Equal(t, "9", o.ID)
	assert.True(t, o.CreatedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	_, err = codec.DecodeOne([]byte(`{"id":"9"},{"id":"10"}`))
	assert.True(t, errors.Is(err, ErrCorruptPersistedData))
}

func TestNewCodec_InvalidPaths(t *testing.T) {
	for _, p := range []string{"", "a..b", "[]", "a.[]", "a[0]"} {
		_, err := NewCodec[order](p)
		assert.Error(t, err, "path %q", p)
	}
	assert.Panics(t, func() { MustCodec[order]("items..x") })
}

func TestDateFields(t *testing.T) {
	assert.Equal(t, orderFields, DateFields[order]())
	assert.Equal(t, []string{"shippedAt"}, DateFields[lineItem]())
	assert.Nil(t, DateFields[string]())
}

func TestDateFields_Embedded(t *testing.T) {
	type audit struct {
		UpdatedAt time.Time `json:"updatedAt"`
	}
	type record struct {
		audit
		ID   string    `json:"id"`
		Seen time.Time `json:"-"`
	}

	assert.Equal(t, []string{"updatedAt"}, DateFields[record]())
}
