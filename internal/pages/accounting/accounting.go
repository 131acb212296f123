// Package accounting holds the collections of the accounting dashboard.
package accounting

import (
	"time"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

// Page is the key prefix of every accounting collection.
const Page = "accounting"

type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"` // income | expense
	Category    string    `json:"category"`
	Account     string    `json:"account"`
	Status      string    `json:"status"` // completed | pending | cancelled
}

func (t Transaction) GetID() string { return t.ID }

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Invoice struct {
	ID         string        `json:"id"`
	ClientID   string        `json:"clientId"`
	ClientName string        `json:"clientName"`
	Date       time.Time     `json:"date"`
	DueDate    time.Time     `json:"dueDate"`
	PaidAt     *time.Time    `json:"paidAt,omitempty"`
	Amount     float64       `json:"amount"`
	Status     string        `json:"status"` // draft | sent | paid | overdue
	Items      []InvoiceItem `json:"items"`
}

func (i Invoice) GetID() string { return i.ID }

type Client struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Company       string  `json:"company,omitempty"`
	TotalInvoiced float64 `json:"totalInvoiced"`
	TotalPaid     float64 `json:"totalPaid"`
	Balance       float64 `json:"balance"`
}

func (c Client) GetID() string { return c.ID }

var (
	transactionCodec = state.MustCodec[Transaction]("date")
	invoiceCodec     = state.MustCodec[Invoice]("date", "dueDate", "paidAt")
	clientCodec      = state.MustCodec[Client]()
)

// Store is the accounting page: transactions, invoices and clients.
type Store struct {
	registry     *stores.Registry
	Transactions *state.TypedStore[Transaction]
	Invoices     *state.TypedStore[Invoice]
	Clients      *state.TypedStore[Client]
}

// New registers the accounting collections on bucket without loading them.
func New(bucket kv.Bucket) *Store {
	r := stores.NewRegistry(bucket, Page)
	return &Store{
		registry:     r,
		Transactions: stores.MustRegister(r, "transactions", transactionCodec, seedTransactions),
		Invoices:     stores.MustRegister(r, "invoices", invoiceCodec, seedInvoices),
		Clients:      stores.MustRegister(r, "clients", clientCodec, seedClients),
	}
}

// Open registers and hydrates the accounting collections.
func Open(bucket kv.Bucket) (*Store, error) {
	s := New(bucket)
	if err := s.registry.Hydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Registry returns the page registry.
func (s *Store) Registry() *stores.Registry {
	return s.registry
}

// RecordTransaction appends t, assigning an id when it has none.
func (s *Store) RecordTransaction(t Transaction) (Transaction, error) {
	if t.ID == "" {
		t.ID = stores.NewID()
	}
	return stores.Add(s.Transactions, t)
}

// MarkInvoicePaid sets an invoice to paid at the given time.
func (s *Store) MarkInvoicePaid(id string, at time.Time) error {
	return stores.UpdateByID(s.Invoices, id, func(inv *Invoice) {
		inv.Status = "paid"
		inv.PaidAt = &at
	})
}

// AddClient appends c, assigning an id when it has none.
func (s *Store) AddClient(c Client) (Client, error) {
	if c.ID == "" {
		c.ID = stores.NewID()
	}
	return stores.Add(s.Clients, c)
}
