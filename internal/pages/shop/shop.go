// Package shop holds the collections of the online shop dashboard.
package shop

import (
	"errors"
	"fmt"
	"time"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

const Page = "shop"

var ErrEmptyOrder = errors.New("order has no items")

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	SKU         string  `json:"sku"`
	Image       string  `json:"image,omitempty"`
	Status      string  `json:"status"` // active | inactive
}

func (p Product) GetID() string { return p.ID }

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	CustomerName    string      `json:"customerName"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	Status          string      `json:"status"` // pending | processing | shipped | delivered | cancelled
	CreatedAt       time.Time   `json:"createdAt"`
	ShippingAddress string      `json:"shippingAddress"`
}

func (o Order) GetID() string { return o.ID }

type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	TotalOrders int       `json:"totalOrders"`
	TotalSpent  float64   `json:"totalSpent"`
	JoinDate    time.Time `json:"joinDate"`
}

func (c Customer) GetID() string { return c.ID }

var (
	productCodec  = state.MustCodec[Product]()
	orderCodec    = state.MustCodec[Order]("createdAt")
	customerCodec = state.MustCodec[Customer]("joinDate")
)

// Store is the shop page: products, orders and customers.
type Store struct {
	registry  *stores.Registry
	Products  *state.TypedStore[Product]
	Orders    *state.TypedStore[Order]
	Customers *state.TypedStore[Customer]
}

// New registers the shop collections on bucket without loading them.
func New(bucket kv.Bucket) *Store {
	r := stores.NewRegistry(bucket, Page)
	return &Store{
		registry:  r,
		Products:  stores.MustRegister(r, "products", productCodec, seedProducts),
		Orders:    stores.MustRegister(r, "orders", orderCodec, state.NoSeed[Order]()),
		Customers: stores.MustRegister(r, "customers", customerCodec, seedCustomers),
	}
}

// Open registers and hydrates the shop collections.
func Open(bucket kv.Bucket) (*Store, error) {
	s := New(bucket)
	if err := s.registry.Hydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Registry() *stores.Registry {
	return s.registry
}

// AddProduct appends p, assigning an id when it has none.
func (s *Store) AddProduct(p Product) (Product, error) {
	if p.ID == "" {
		p.ID = stores.NewID()
	}
	return stores.Add(s.Products, p)
}

func (s *Store) RemoveProduct(id string) error {
	return stores.RemoveByID(s.Products, id)
}

// PlaceOrder records a pending order for a customer. Item names and prices are
// taken from the product catalog and stock is decremented, never below zero.
// The customer's totals are updated after the order is written.
func (s *Store) PlaceOrder(customerID string, items []OrderItem, address string, at time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	customer, ok := stores.Find(s.Customers, customerID)
	if !ok {
		return Order{}, fmt.Errorf("customer %s: %w", customerID, stores.ErrNotFound)
	}

	catalog := make(map[string]Product)
	for _, p := range s.Products.Snapshot() {
		catalog[p.ID] = p
	}

	order := Order{
		ID:              stores.NewID(),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		Status:          "pending",
		CreatedAt:       at,
		ShippingAddress: address,
	}
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok {
			return Order{}, fmt.Errorf("product %s: %w", item.ProductID, stores.ErrNotFound)
		}
		item.Name = p.Name
		item.Price = p.Price
		order.Items = append(order.Items, item)
		order.Total += p.Price * float64(item.Quantity)
	}

	err := s.Products.Update(func(current []Product) []Product {
		for i := range current {
			for _, item := range order.Items {
				if current[i].ID == item.ProductID {
					current[i].Stock = max(current[i].Stock-item.Quantity, 0)
				}
			}
		}
		return current
	})
	if err != nil {
		return Order{}, err
	}

	if _, err := stores.Add(s.Orders, order); err != nil {
		return Order{}, err
	}

	err = stores.UpdateByID(s.Customers, customer.ID, func(c *Customer) {
		c.TotalOrders++
		c.TotalSpent += order.Total
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// AddCustomer appends c, assigning an id when it has none.
func (s *Store) AddCustomer(c Customer) (Customer, error) {
	if c.ID == "" {
		c.ID = stores.NewID()
	}
	return stores.Add(s.Customers, c)
}
