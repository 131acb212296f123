package pets

import "time"

var seedDay = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func seedPets() []Pet {
	checkup := seedDay
	return []Pet{
		{
			ID: "1", Name: "Max", Type: "dog", Breed: "Golden Retriever", Age: 3, Weight: 25,
			OwnerID: "1", OwnerName: "Sarah Benali", Status: "healthy", LastCheckup: &checkup,
		},
		{
			ID: "2", Name: "Luna", Type: "cat", Breed: "Persian", Age: 2, Weight: 4,
			OwnerID: "2", OwnerName: "Ahmed Kadri", Status: "healthy", LastCheckup: &checkup,
		},
	}
}

func seedOwners() []Owner {
	return []Owner{
		{ID: "1", Name: "Sarah Benali", Email: "sarah@email.com", Phone: "+213 555 1234", Pets: []string{"1"}, TotalSpent: 450, Visits: 5, Membership: "premium"},
		{ID: "2", Name: "Ahmed Kadri", Email: "ahmed@email.com", Phone: "+213 555 5678", Pets: []string{"2"}, TotalSpent: 280, Visits: 3, Membership: "regular"},
	}
}

func seedAppointments() []Appointment {
	return []Appointment{
		{ID: "1", PetID: "1", PetName: "Max", OwnerID: "1", OwnerName: "Sarah Benali", Date: seedDay, Time: "10:00", Type: "checkup", Status: "scheduled", Cost: 50},
		{ID: "2", PetID: "2", PetName: "Luna", OwnerID: "2", OwnerName: "Ahmed Kadri", Date: seedDay.AddDate(0, 0, 7), Time: "14:00", Type: "grooming", Status: "scheduled", Cost: 35},
	}
}

func seedServices() []Service {
	rating := func(v float64) *float64 { return &v }
	return []Service{
		{ID: "1", Name: "Toilettage Complet", Description: "Coupe, bain et soins", Type: "grooming", Price: 45, Duration: 90, Bookings: 25, Rating: rating(4.8)},
		{ID: "2", Name: "Garde de Jour", Description: "Garde pendant la journée", Type: "daycare", Price: 30, Duration: 480, Bookings: 40, Rating: rating(4.7)},
		{ID: "3", Name: "Dressage", Description: "Sessions de dressage", Type: "training", Price: 60, Duration: 60, Bookings: 15, Rating: rating(4.9)},
	}
}

func seedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Nourriture Premium Chien", Description: "Croquettes premium", Category: "food", Price: 45, Cost: 25, Stock: 50, Sold: 120},
		{ID: "2", Name: "Jouet Interactif", Description: "Jouet pour chat", Category: "toys", Price: 15, Cost: 8, Stock: 30, Sold: 85},
		{ID: "3", Name: "Collier Cuir", Description: "Collier en cuir véritable", Category: "accessories", Price: 25, Cost: 12, Stock: 20, Sold: 45},
	}
}
