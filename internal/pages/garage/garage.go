// Package garage holds the collections of the garage dashboard.
package garage

import (
	"fmt"
	"time"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

const Page = "garage"

type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	Category    string  `json:"category"` // repair | maintenance | inspection | diagnostic
	Available   bool    `json:"available"`
}

func (s Service) GetID() string { return s.ID }

type Vehicle struct {
	ID             string     `json:"id"`
	OwnerName      string     `json:"ownerName"`
	OwnerPhone     string     `json:"ownerPhone"`
	LicensePlate   string     `json:"licensePlate"`
	Make           string     `json:"make"`
	Model          string     `json:"model"`
	Year           int        `json:"year"`
	Mileage        int        `json:"mileage"`
	LastService    *time.Time `json:"lastService,omitempty"`
	ServiceHistory []string   `json:"serviceHistory"`
}

func (v Vehicle) GetID() string { return v.ID }

type Appointment struct {
	ID           string    `json:"id"`
	VehicleID    string    `json:"vehicleId"`
	OwnerName    string    `json:"ownerName"`
	LicensePlate string    `json:"licensePlate"`
	ServiceID    string    `json:"serviceId"`
	ServiceName  string    `json:"serviceName"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"` // scheduled | in_progress | completed | cancelled
	Notes        string    `json:"notes,omitempty"`
	Cost         *float64  `json:"cost,omitempty"`
}

func (a Appointment) GetID() string { return a.ID }

type InventoryItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Supplier  string  `json:"supplier"`
	MinStock  int     `json:"minStock"`
}

func (i InventoryItem) GetID() string { return i.ID }

var (
	serviceCodec     = state.MustCodec[Service]()
	vehicleCodec     = state.MustCodec[Vehicle]("lastService")
	appointmentCodec = state.MustCodec[Appointment]("date")
	inventoryCodec   = state.MustCodec[InventoryItem]()
)

// Store is the garage page.
type Store struct {
	registry     *stores.Registry
	Services     *state.TypedStore[Service]
	Vehicles     *state.TypedStore[Vehicle]
	Appointments *state.TypedStore[Appointment]
	Inventory    *state.TypedStore[InventoryItem]
}

// New registers the garage collections on bucket without loading them.
func New(bucket kv.Bucket) *Store {
	r := stores.NewRegistry(bucket, Page)
	return &Store{
		registry:     r,
		Services:     stores.MustRegister(r, "services", serviceCodec, seedServices),
		Vehicles:     stores.MustRegister(r, "vehicles", vehicleCodec, seedVehicles),
		Appointments: stores.MustRegister(r, "appointments", appointmentCodec, seedAppointments),
		Inventory:    stores.MustRegister(r, "inventory", inventoryCodec, seedInventory),
	}
}

// Open registers and hydrates the garage collections.
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

// BookAppointment schedules serviceID for vehicleID on the given day and slot.
// Owner, plate and service name are copied from the referenced records.
func (s *Store) BookAppointment(vehicleID, serviceID string, day time.Time, slot string) (Appointment, error) {
	vehicle, ok := stores.Find(s.Vehicles, vehicleID)
	if !ok {
		return Appointment{}, fmt.Errorf("vehicle %s: %w", vehicleID, stores.ErrNotFound)
	}
	service, ok := stores.Find(s.Services, serviceID)
	if !ok {
		return Appointment{}, fmt.Errorf("service %s: %w", serviceID, stores.ErrNotFound)
	}

	cost := service.Price
	return stores.Add(s.Appointments, Appointment{
		ID:           stores.NewID(),
		VehicleID:    vehicle.ID,
		OwnerName:    vehicle.OwnerName,
		LicensePlate: vehicle.LicensePlate,
		ServiceID:    service.ID,
		ServiceName:  service.Name,
		Date:         day,
		Time:         slot,
		Status:       "scheduled",
		Cost:         &cost,
	})
}

// CompleteAppointment marks an appointment completed and records it on the vehicle.
// The two collections are written one after the other.
func (s *Store) CompleteAppointment(id string) error {
	appt, ok := stores.Find(s.Appointments, id)
	if !ok {
		return fmt.Errorf("appointment %s: %w", id, stores.ErrNotFound)
	}

	err := stores.UpdateByID(s.Appointments, id, func(a *Appointment) {
		a.Status = "completed"
	})
	if err != nil {
		return err
	}

	entry := fmt.Sprintf("%s - %s", appt.ServiceName, appt.Date.Format("02/01/2006"))
	err = stores.UpdateByID(s.Vehicles, appt.VehicleID, func(v *Vehicle) {
		day := appt.Date
		v.LastService = &day
		v.ServiceHistory = append(append([]string(nil), v.ServiceHistory...), entry)
	})
	if err != nil {
		return fmt.Errorf("failed to record service on vehicle: %w", err)
	}
	return nil
}

// AdjustStock changes an inventory quantity by delta, never going below zero.
func (s *Store) AdjustStock(itemID string, delta int) error {
	return stores.UpdateByID(s.Inventory, itemID, func(item *InventoryItem) {
		item.Quantity = max(0, item.Quantity+delta)
	})
}

// LowStock returns inventory items at or below their minimum stock.
func (s *Store) LowStock() []InventoryItem {
	var out []InventoryItem
	for _, item := range s.Inventory.Snapshot() {
		if item.Quantity <= item.MinStock {
			out = append(out, item)
		}
	}
	return out
}
