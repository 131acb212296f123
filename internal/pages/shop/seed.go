package shop

import "time"

func seedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Smartphone Pro Max", Description: `Smartphone haut de gamme avec écran 6.7"`, Price: 899.99, Category: "Électronique", Stock: 25, SKU: "PHONE-001", Status: "active"},
		{ID: "2", Name: "Casque Bluetooth Premium", Description: "Casque sans fil avec réduction de bruit active", Price: 149.99, Category: "Audio", Stock: 50, SKU: "AUDIO-001", Status: "active"},
		{ID: "3", Name: "Montre Connectée", Description: "Montre intelligente avec suivi santé", Price: 249.99, Category: "Wearables", Stock: 30, SKU: "WATCH-001", Status: "active"},
	}
}

func seedCustomers() []Customer {
	return []Customer{
		{
			ID: "1", Name: "Ahmed Benali", Email: "ahmed@email.com", Phone: "+213 555 1234",
			TotalOrders: 5, TotalSpent: 1250.50,
			JoinDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
