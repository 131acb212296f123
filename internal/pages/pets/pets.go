// Package pets holds the collections of the pet shop and grooming dashboard.
package pets

import (
	"time"

	"github.com/dokzlo13/pagestore/internal/state"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

const Page = "pets"

type Vaccination struct {
	Name    string     `json:"name"`
	Date    time.Time  `json:"date"`
	NextDue *time.Time `json:"nextDue,omitempty"`
}

type Pet struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           string        `json:"type"` // dog | cat | bird | rabbit | other
	Breed          string        `json:"breed"`
	Age            int           `json:"age"`
	Weight         float64       `json:"weight"`
	OwnerID        string        `json:"ownerId"`
	OwnerName      string        `json:"ownerName"`
	MedicalHistory []string      `json:"medicalHistory"`
	Vaccinations   []Vaccination `json:"vaccinations"`
	LastCheckup    *time.Time    `json:"lastCheckup,omitempty"`
	Status         string        `json:"status"` // healthy | sick | recovering
}

func (p Pet) GetID() string { return p.ID }

type Owner struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address,omitempty"`
	Pets       []string `json:"pets"`
	TotalSpent float64  `json:"totalSpent"`
	Visits     int      `json:"visits"`
	Membership string   `json:"membership,omitempty"` // regular | premium
}

func (o Owner) GetID() string { return o.ID }

type Appointment struct {
	ID        string    `json:"id"`
	PetID     string    `json:"petId"`
	PetName   string    `json:"petName"`
	OwnerID   string    `json:"ownerId"`
	OwnerName string    `json:"ownerName"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Type      string    `json:"type"`   // checkup | vaccination | grooming | surgery | emergency
	Status    string    `json:"status"` // scheduled | completed | cancelled
	Notes     string    `json:"notes,omitempty"`
	Cost      float64   `json:"cost"`
}

func (a Appointment) GetID() string { return a.ID }

type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"` // grooming | boarding | training | daycare | other
	Price       float64  `json:"price"`
	Duration    int      `json:"duration"`
	Bookings    int      `json:"bookings"`
	Rating      *float64 `json:"rating,omitempty"`
}

func (s Service) GetID() string { return s.ID }

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"` // food | toys | accessories | medicine | other
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Stock       int     `json:"stock"`
	Sold        int     `json:"sold"`
}

func (p Product) GetID() string { return p.ID }

var (
	petCodec         = state.MustCodec[Pet]("vaccinations[].date", "vaccinations[].nextDue", "lastCheckup")
	ownerCodec       = state.MustCodec[Owner]()
	appointmentCodec = state.MustCodec[Appointment]("date")
	serviceCodec     = state.MustCodec[Service]()
	productCodec     = state.MustCodec[Product]()
)

type Store struct {
	registry     *stores.Registry
	Pets         *state.TypedStore[Pet]
	Owners       *state.TypedStore[Owner]
	Appointments *state.TypedStore[Appointment]
	Services     *state.TypedStore[Service]
	Products     *state.TypedStore[Product]
}

// New registers the pets collections on bucket without loading them.
func New(bucket kv.Bucket) *Store {
	r := stores.NewRegistry(bucket, Page)
	return &Store{
		registry:     r,
		Pets:         stores.MustRegister(r, "pets", petCodec, seedPets),
		Owners:       stores.MustRegister(r, "owners", ownerCodec, seedOwners),
		Appointments: stores.MustRegister(r, "appointments", appointmentCodec, seedAppointments),
		Services:     stores.MustRegister(r, "services", serviceCodec, seedServices),
		Products:     stores.MustRegister(r, "products", productCodec, seedProducts),
	}
}

// Open registers and hydrates the pets collections.
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

// RecordVaccination appends a vaccination to a pet's record.
func (s *Store) RecordVaccination(petID string, v Vaccination) error {
	return stores.UpdateByID(s.Pets, petID, func(p *Pet) {
		p.Vaccinations = append(append([]Vaccination(nil), p.Vaccinations...), v)
	})
}

// RecordCheckup sets a pet's last checkup and health status.
func (s *Store) RecordCheckup(petID string, at time.Time, status string) error {
	return stores.UpdateByID(s.Pets, petID, func(p *Pet) {
		p.LastCheckup = &at
		p.Status = status
	})
}

// DueVaccinations returns, per pet id, the vaccinations whose next due date is
// on or before the given time.
func (s *Store) DueVaccinations(at time.Time) map[string][]Vaccination {
	due := make(map[string][]Vaccination)
	for _, p := range s.Pets.Snapshot() {
		for _, v := range p.Vaccinations {
			if v.NextDue != nil && !v.NextDue.After(at) {
				due[p.ID] = append(due[p.ID], v)
			}
		}
	}
	return due
}
