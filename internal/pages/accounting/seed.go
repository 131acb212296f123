package accounting

import "time"

// seedDay anchors every accounting fixture date.
var seedDay = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func seedTransactions() []Transaction {
	return []Transaction{
		{ID: "1", Date: seedDay, Description: "Vente produit A", Amount: 1500, Type: "income", Category: "Ventes", Account: "Compte Principal", Status: "completed"},
		{ID: "2", Date: seedDay, Description: "Paiement fournisseur", Amount: 800, Type: "expense", Category: "Achats", Account: "Compte Principal", Status: "completed"},
		{ID: "3", Date: seedDay, Description: "Salaire employé", Amount: 1200, Type: "expense", Category: "Personnel", Account: "Compte Principal", Status: "pending"},
	}
}

func seedInvoices() []Invoice {
	return []Invoice{
		{
			ID:         "1",
			ClientID:   "1",
			ClientName: "Entreprise ABC",
			Date:       seedDay,
			DueDate:    seedDay.AddDate(0, 0, 30),
			Amount:     5000,
			Status:     "sent",
			Items: []InvoiceItem{
				{Description: "Services conseil", Quantity: 10, Price: 500},
			},
		},
	}
}

func seedClients() []Client {
	return []Client{
		{ID: "1", Name: "Entreprise ABC", Email: "contact@abc.com", Phone: "+213 555 1234", Company: "ABC Corp", TotalInvoiced: 5000, TotalPaid: 3000, Balance: 2000},
		{ID: "2", Name: "Société XYZ", Email: "info@xyz.com", Phone: "+213 555 5678", Company: "XYZ Ltd", TotalInvoiced: 8000, TotalPaid: 8000, Balance: 0},
	}
}
