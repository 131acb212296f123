package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/storage/kv/kvtest"
)

const ordersKey = "shop-orders"

func newOrderStore(bucket kv.Bucket) *TypedStore[order] {
	return NewTypedStore(bucket, ordersKey, MustCodec[order](orderFields...), sampleOrders)
}

func encodeOrders(t *testing.T, items []order) string {
	t.Helper()
	blob, err := MustCodec[order](orderFields...).Encode(items)
	require.NoError(t, err)
	return blob
}

func TestTypedStore_SeedOnAbsence(t *testing.T) {
	spy := kvtest.NewSpy()
	store := newOrderStore(spy)
	assert.Equal(t, Uninitialized, store.Status())
	assert.Empty(t, store.Snapshot())

	items, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), items)
	assert.Equal(t, Hydrated, store.Status())

	raw, ok := spy.Raw(ordersKey)
	require.True(t, ok)
	assert.Equal(t, encodeOrders(t, sampleOrders()), raw)
	assert.Equal(t, 1, spy.Count("set", ordersKey))
}

func TestTypedStore_SeedOnCorruption(t *testing.T) {
	for name, blob := range map[string]string{
		"not json": `{"id":`,
		"bad date": `[{"id":"1","createdAt":"someday"}]`,
		"null":     `null`,
	} {
		t.Run(name, func(t *testing.T) {
			spy := kvtest.NewSpy()
			require.NoError(t, spy.Bucket.Set(ordersKey, blob))

			items, err := newOrderStore(spy).Load()
			require.NoError(t, err)
			assert.Equal(t, sampleOrders(), items)

			raw, _ := spy.Raw(ordersKey)
			assert.Equal(t, encodeOrders(t, sampleOrders()), raw)
		})
	}
}

func TestTypedStore_NoClobberOnHydration(t *testing.T) {
	stored := []order{{ID: "1", CustomerID: "c9", CreatedAt: at("2024-05-01T10:00:00Z")}}

	spy := kvtest.NewSpy()
	require.NoError(t, spy.Bucket.Set(ordersKey, encodeOrders(t, stored)))

	store := newOrderStore(spy)
	items, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, stored, items)

	// Hydrating again is still read-only.
	_, err = store.Load()
	require.NoError(t, err)

	assert.Equal(t, 0, spy.Count("set", ""))
	assert.Equal(t, []kvtest.Op{{Method: "get", Key: ordersKey}, {Method: "get", Key: ordersKey}}, spy.Ops())
}

func TestTypedStore_StoredEmptyCollectionIsNotAbsence(t *testing.T) {
	spy := kvtest.NewSpy()
	require.NoError(t, spy.Bucket.Set(ordersKey, "[]"))

	items, err := newOrderStore(spy).Load()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, spy.Count("set", ""))
}

func TestTypedStore_EmptySeedIsNotAbsenceNextTime(t *testing.T) {
	spy := kvtest.NewSpy()
	store := NewTypedStore(spy, ordersKey, MustCodec[order](orderFields...), NoSeed[order]())

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, spy.Count("set", ordersKey))

	spy.Reset()
	items, err = NewTypedStore(spy, ordersKey, MustCodec[order](orderFields...), sampleOrders).Load()
	require.NoError(t, err)
	assert.Empty(t, items, "stored empty seed must not be reseeded")
	assert.Equal(t, 0, spy.Count("set", ""))
}

func TestTypedStore_WriteThenRead(t *testing.T) {
	bucket := kv.NewMemoryBucket("test")
	store := newOrderStore(bucket)
	_, err := store.Load()
	require.NoError(t, err)

	next := sampleOrders()[1:]
	next[0].Total = 42
	require.NoError(t, store.Replace(next))
	assert.Equal(t, next, store.Snapshot())

	items, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, next, items)

	// A fresh store over the same bucket observes the write too.
	items, err = newOrderStore(bucket).Load()
	require.NoError(t, err)
	assert.Equal(t, next, items)
}

func TestTypedStore_ReplaceWithEmptyIsDeliberate(t *testing.T) {
	spy := kvtest.NewSpy()
	store := newOrderStore(spy)
	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Replace(nil))
	raw, _ := spy.Raw(ordersKey)
	assert.Equal(t, "[]", raw)

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTypedStore_UpdateRequiresHydration(t *testing.T) {
	spy := kvtest.NewSpy()
	require.NoError(t, spy.Bucket.Set(ordersKey, encodeOrders(t, sampleOrders())))
	store := newOrderStore(spy)

	called := false
	err := store.Update(func(current []order) []order {
		called = true
		return current
	})
	assert.True(t, errors.Is(err, ErrNotHydrated))
	assert.False(t, called)
	assert.Equal(t, 0, spy.Count("set", ""))

	_, err = store.Load()
	require.NoError(t, err)

	err = store.Update(func(current []order) []order {
		return append(current, order{ID: "3", CreatedAt: at("2024-06-01T00:00:00Z")})
	})
	require.NoError(t, err)

	items, err := store.Load()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "3", items[2].ID)
}

func TestTypedStore_UpdateGetsACopy(t *testing.T) {
	store := newOrderStore(kv.NewMemoryBucket("test"))
	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Update(func(current []order) []order {
		current[0].ID = "changed"
		return current[:1]
	}))

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "changed", snapshot[0].ID)

	snapshot[0].ID = "mutated outside"
	assert.Equal(t, "changed", store.Snapshot()[0].ID)
}

func TestTypedStore_StorageUnavailable(t *testing.T) {
	boom := errors.Join(kv.ErrUnavailable, errors.New("disk gone"))

	t.Run("load read failure", func(t *testing.T) {
		spy := kvtest.NewSpy()
		spy.FailGet = boom
		store := newOrderStore(spy)

		_, err := store.Load()
		assert.True(t, errors.Is(err, ErrStorageUnavailable))
		assert.Equal(t, Uninitialized, store.Status())
	})

	t.Run("seed write failure", func(t *testing.T) {
		spy := kvtest.NewSpy()
		spy.FailSet = boom
		store := newOrderStore(spy)

		_, err := store.Load()
		assert.True(t, errors.Is(err, ErrStorageUnavailable))
		assert.Equal(t, Uninitialized, store.Status())
	})

	t.Run("replace failure keeps collection", func(t *testing.T) {
		store := newOrderStore(kv.NewMemoryBucket("test").WithQuota(2048))
		_, err := store.Load()
		require.NoError(t, err)

		huge := sampleOrders()
		for i := 0; i < 50; i++ {
			huge = append(huge, sampleOrders()...)
		}
		err = store.Replace(huge)
		assert.True(t, errors.Is(err, kv.ErrQuotaExceeded))
		assert.True(t, errors.Is(err, ErrStorageUnavailable))
		assert.Equal(t, sampleOrders(), store.Snapshot())

		items, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, sampleOrders(), items)
	})
}

func TestTypedStore_Independence(t *testing.T) {
	spy := kvtest.NewSpy()
	orders := newOrderStore(spy)
	other := NewTypedStore(spy, "shop-returns", MustCodec[order](orderFields...), NoSeed[order]())

	_, err := orders.Load()
	require.NoError(t, err)
	_, err = other.Load()
	require.NoError(t, err)

	spy.Reset()
	require.NoError(t, orders.Replace(sampleOrders()[:1]))
	require.NoError(t, orders.Update(func(c []order) []order { return c }))

	for _, op := range spy.Ops() {
		assert.Equal(t, ordersKey, op.Key)
	}
}

func TestTypedStore_DefaultsFromType(t *testing.T) {
	store := NewTypedStore[order](kv.NewMemoryBucket("test"), ordersKey, nil, nil)
	assert.Equal(t, orderFields, store.Codec().DateFields())

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "hydrated", Hydrated.String())
	assert.Equal(t, "status(7)", Status(7).String())
}

func TestTypedStore_ClearReseeds(t *testing.T) {
	spy := kvtest.NewSpy()
	store := newOrderStore(spy)
	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Replace(nil))

	existed, err := store.Clear()
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, Uninitialized, store.Status())
	assert.Empty(t, store.Snapshot())

	existed, err = store.Clear()
	require.NoError(t, err)
	assert.False(t, existed, "clearing twice is a no-op")

	items, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), items)
}

func TestTypedStore_ReadsDoNotShareNestedData(t *testing.T) {
	store := newOrderStore(kv.NewMemoryBucket("test"))
	loaded, err := store.Load()
	require.NoError(t, err)

	loaded[0].Items[0].SKU = "changed by load caller"
	snapshot := store.Snapshot()
	snapshot[0].Items[0].SKU = "changed by snapshot caller"
	*snapshot[0].DeliveredAt = at("2030-01-01T00:00:00Z")

	assert.Equal(t, sampleOrders(), store.Snapshot())

	next := sampleOrders()
	require.NoError(t, store.Replace(next))
	next[0].Items[1].Quantity = 99
	assert.Equal(t, 1, store.Snapshot()[0].Items[1].Quantity)
}

func TestTypedStore_FailedWriteKeepsNestedData(t *testing.T) {
	spy := kvtest.NewSpy()
	store := newOrderStore(spy)
	_, err := store.Load()
	require.NoError(t, err)
	spy.FailSet = kv.ErrQuotaExceeded

	t.Run("update", func(t *testing.T) {
		err := store.Update(func(current []order) []order {
			current[0].Items[0].Quantity = 7
			current[0].Reminders[0] = at("2031-01-01T00:00:00Z")
			return current
		})
		assert.True(t, errors.Is(err, ErrStorageUnavailable))
		assert.Equal(t, sampleOrders(), store.Snapshot())
	})

	t.Run("replace", func(t *testing.T) {
		next := store.Snapshot()
		next[0].Items[0].SKU = "unsaved"
		next[0].Items = append(next[0].Items, lineItem{SKU: "C", Quantity: 3})

		err := store.Replace(next)
		assert.True(t, errors.Is(err, kv.ErrQuotaExceeded))
		assert.Equal(t, sampleOrders(), store.Snapshot())
	})

	spy.FailSet = nil
	items, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), items)
}
