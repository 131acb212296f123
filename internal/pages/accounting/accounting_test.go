package accounting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/storage/kv/kvtest"
	"github.com/dokzlo13/pagestore/internal/stores"
)

func TestCodecsCoverEveryDateField(t *testing.T) {
	assert.ElementsMatch(t, state.DateFields[Transaction](), transactionCodec.DateFields())
	assert.ElementsMatch(t, state.DateFields[Invoice](), invoiceCodec.DateFields())
	assert.Empty(t, state.DateFields[Client]())
}

func TestOpen_SeedsThenKeeps(t *testing.T) {
	spy := kvtest.NewSpy()
	s, err := Open(spy)
	require.NoError(t, err)

	assert.Equal(t, []string{"transactions", "invoices", "clients"}, s.Registry().Names())
	assert.Len(t, s.Transactions.Snapshot(), 3)
	assert.Equal(t, seedInvoices(), s.Invoices.Snapshot())
	assert.Equal(t, 3, spy.Count("set", ""))

	for _, key := range []string{"accounting-transactions", "accounting-invoices", "accounting-clients"} {
		_, ok := spy.Raw(key)
		assert.True(t, ok, key)
	}

	spy.Reset()
	_, err = Open(spy)
	require.NoError(t, err)
	assert.Equal(t, 0, spy.Count("set", ""))
}

func TestRecordTransaction(t *testing.T) {
	bucket := kv.NewMemoryBucket("test")
	s, err := Open(bucket)
	require.NoError(t, err)

	tx, err := s.RecordTransaction(Transaction{
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Description: "Loyer",
		Amount:      900,
		Type:        "expense",
		Status:      "completed",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)

	reopened, err := Open(bucket)
	require.NoError(t, err)
	got, ok := stores.Find(reopened.Transactions, tx.ID)
	require.True(t, ok)
	assert.True(t, got.Date.Equal(tx.Date))
	assert.Equal(t, "Loyer", got.Description)
}

func TestMarkInvoicePaid(t *testing.T) {
	bucket := kv.NewMemoryBucket("test")
	s, err := Open(bucket)
	require.NoError(t, err)

	paid := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.MarkInvoicePaid("1", paid))

	reopened, err := Open(bucket)
	require.NoError(t, err)
	inv, ok := stores.Find(reopened.Invoices, "1")
	require.True(t, ok)
	assert.Equal(t, "paid", inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.True(t, inv.PaidAt.Equal(paid))

	err = s.MarkInvoicePaid("missing", paid)
	assert.True(t, errors.Is(err, stores.ErrNotFound))
}

func TestAddClient_KeepsExplicitID(t *testing.T) {
	s, err := Open(kv.NewMemoryBucket("test"))
	require.NoError(t, err)

	c, err := s.AddClient(Client{ID: "c-3", Name: "Atelier 3"})
	require.NoError(t, err)
	assert.Equal(t, "c-3", c.ID)
	assert.Len(t, s.Clients.Snapshot(), 3)
}
