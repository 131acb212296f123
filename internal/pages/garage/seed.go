package garage

import "time"

var seedDay = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func seedServices() []Service {
	return []Service{
		{ID: "1", Name: "Révision Complète", Description: "Vidange, filtres, vérifications", Price: 120, Duration: 120, Category: "maintenance", Available: true},
		{ID: "2", Name: "Réparation Moteur", Description: "Diagnostic et réparation moteur", Price: 300, Duration: 240, Category: "repair", Available: true},
		{ID: "3", Name: "Contrôle Technique", Description: "Inspection complète du véhicule", Price: 80, Duration: 60, Category: "inspection", Available: true},
		{ID: "4", Name: "Diagnostic Électronique", Description: "Lecture codes erreur et diagnostic", Price: 50, Duration: 30, Category: "diagnostic", Available: true},
	}
}

func seedVehicles() []Vehicle {
	lastService := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	return []Vehicle{
		{
			ID:             "1",
			OwnerName:      "Ahmed Benali",
			OwnerPhone:     "+213 555 1234",
			LicensePlate:   "12345-A-16",
			Make:           "Renault",
			Model:          "Clio",
			Year:           2018,
			Mileage:        45000,
			LastService:    &lastService,
			ServiceHistory: []string{"Révision Complète - 10/01/2024"},
		},
		{
			ID:             "2",
			OwnerName:      "Fatima Kadri",
			OwnerPhone:     "+213 555 5678",
			LicensePlate:   "67890-B-31",
			Make:           "Peugeot",
			Model:          "208",
			Year:           2020,
			Mileage:        30000,
			ServiceHistory: []string{},
		},
	}
}

func seedAppointments() []Appointment {
	cost := 120.0
	return []Appointment{
		{
			ID:           "1",
			VehicleID:    "1",
			OwnerName:    "Ahmed Benali",
			LicensePlate: "12345-A-16",
			ServiceID:    "1",
			ServiceName:  "Révision Complète",
			Date:         seedDay,
			Time:         "09:00",
			Status:       "scheduled",
			Cost:         &cost,
		},
	}
}

func seedInventory() []InventoryItem {
	return []InventoryItem{
		{ID: "1", Name: "Huile Moteur 5W30", Category: "Lubrifiants", Quantity: 25, UnitPrice: 35, Supplier: "Total", MinStock: 10},
		{ID: "2", Name: "Filtre à Huile", Category: "Filtres", Quantity: 15, UnitPrice: 12, Supplier: "Mann Filter", MinStock: 5},
	}
}
