package seed

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(n int) *int { return &n }

var demoCustomers = []customer.CreateCustomerRequest{
	{
		TypeDocument: customer.TypeDNI, NumberDocument: "12345678",
		FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "555-123-4567",
		Address:     &customer.Address{Street: "123 Main St", City: "Anytown", State: "CA", PostalCode: "12345", Country: "USA"},
		DateOfBirth: "1985-07-15",
		Preferences: map[string]any{"newsletter": true, "marketingEmails": false},
		Notes:       "Prefers email communication",
	},
	{
		TypeDocument: customer.TypeDNI, NumberDocument: "87654321",
		FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Phone: "555-987-6543",
		Address:     &customer.Address{Street: "456 Oak Ave", City: "Somewhere", State: "NY", PostalCode: "67890", Country: "USA"},
		DateOfBirth: "1990-03-22",
		Preferences: map[string]any{"newsletter": true, "marketingEmails": true},
	},
	{
		TypeDocument: customer.TypeRUC, NumberDocument: "20123456789",
		FirstName: "Robert", LastName: "Johnson", Email: "robert.johnson@example.com", Phone: "555-456-7890",
		Address:     &customer.Address{Street: "789 Pine Rd", City: "Elsewhere", State: "TX", PostalCode: "45678", Country: "USA"},
		DateOfBirth: "1978-11-30",
		Preferences: map[string]any{"newsletter": false, "marketingEmails": false},
		Notes:       "Prefers phone communication",
	},
	{
		TypeDocument: customer.TypeCE, NumberDocument: "001234567",
		FirstName: "Emily", LastName: "Brown", Email: "emily.brown@example.com", Phone: "555-234-5678",
		Address:     &customer.Address{Street: "321 Elm St", City: "Nowhere", State: "FL", PostalCode: "34567", Country: "USA"},
		DateOfBirth: "1995-05-12",
		Preferences: map[string]any{"newsletter": true, "marketingEmails": false},
	},
	{
		TypeDocument: customer.TypeDNI, NumberDocument: "45678912",
		FirstName: "Michael", LastName: "Wilson", Email: "michael.wilson@example.com", Phone: "555-876-5432",
		Address:     &customer.Address{Street: "654 Maple Ave", City: "Somewhere Else", State: "WA", PostalCode: "23456", Country: "USA"},
		DateOfBirth: "1982-09-18",
		Preferences: map[string]any{"newsletter": true, "marketingEmails": true},
		Notes:       "VIP customer",
	},
}

var demoProducts = []product.CreateProductRequest{
	{
		Name: "Smartphone X", Description: "Latest smartphone with advanced features",
		Price: decimal.RequireFromString("799.99"), Inventory: intp(50), SKU: "PHONE-X-001",
		Categories: []string{"electronics", "smartphones"},
		Attributes: map[string]any{"color": "Black", "storage": "128GB", "camera": "48MP"},
		ImageURL:   "https://example.com/images/smartphone-x.jpg",
		Weight:     dec("0.35"),
		Dimensions: &product.Dimensions{Length: 15, Width: 7.5, Height: 0.8, Unit: "cm"},
	},
	{
		Name: "Laptop Pro", Description: "High-performance laptop for professionals",
		Price: decimal.RequireFromString("1299.99"), Inventory: intp(25), SKU: "LAPTOP-PRO-001",
		Categories: []string{"electronics", "computers", "laptops"},
		Attributes: map[string]any{"processor": "Intel i7", "ram": "16GB", "storage": "512GB SSD", "display": "15.6 inch"},
		ImageURL:   "https://example.com/images/laptop-pro.jpg",
		Weight:     dec("2.1"),
		Dimensions: &product.Dimensions{Length: 35.8, Width: 24.5, Height: 1.8, Unit: "cm"},
	},
	{
		Name: "Wireless Headphones", Description: "Noise-cancelling wireless headphones",
		Price: decimal.RequireFromString("199.99"), Inventory: intp(100), SKU: "AUDIO-HP-001",
		Categories: []string{"electronics", "audio", "accessories"},
		Attributes: map[string]any{"color": "Silver", "batteryLife": "20 hours", "connectivity": "Bluetooth 5.0"},
		ImageURL:   "https://example.com/images/wireless-headphones.jpg",
		Weight:     dec("0.25"),
		Dimensions: &product.Dimensions{Length: 18, Width: 15, Height: 8, Unit: "cm"},
	},
	{
		Name: "Smart Watch", Description: "Fitness and health tracking smart watch",
		Price: decimal.RequireFromString("249.99"), Inventory: intp(75), SKU: "WATCH-SW-001",
		Categories: []string{"electronics", "wearables", "fitness"},
		Attributes: map[string]any{
			"color": "Black", "display": "AMOLED", "waterproof": true,
			"sensors": []string{"heart rate", "GPS", "accelerometer"},
		},
		ImageURL:   "https://example.com/images/smart-watch.jpg",
		Weight:     dec("0.05"),
		Dimensions: &product.Dimensions{Length: 4.2, Width: 3.6, Height: 1.2, Unit: "cm"},
	},
	{
		Name: "Bluetooth Speaker", Description: "Portable waterproof bluetooth speaker",
		Price: decimal.RequireFromString("89.99"), Inventory: intp(120), SKU: "AUDIO-BS-001",
		Categories: []string{"electronics", "audio", "accessories"},
		Attributes: map[string]any{"color": "Blue", "batteryLife": "12 hours", "waterproof": true},
		ImageURL:   "https://example.com/images/bluetooth-speaker.jpg",
		Weight:     dec("0.45"),
		Dimensions: &product.Dimensions{Length: 18, Width: 7, Height: 7, Unit: "cm"},
	},
}

type line struct {
	sku      string
	quantity int
	discount string
	notes    string
}

// demoOrder is placed through the order workflow and then walked to status.
type demoOrder struct {
	email    string
	lines    []line
	shipping string
	notes    string

	status   order.Status
	refunded bool
	tracking string
}

var demoOrders = []demoOrder{
	{
		email:    "john.doe@example.com",
		lines:    []line{{sku: "PHONE-X-001", quantity: 1}, {sku: "AUDIO-HP-001", quantity: 1}},
		shipping: "15.00", notes: "Priority shipping",
		status: order.StatusDelivered, tracking: "TRK123456789",
	},
	{
		email:    "jane.smith@example.com",
		lines:    []line{{sku: "WATCH-SW-001", quantity: 1, discount: "20.00", notes: "Promotional discount applied"}},
		shipping: "0", notes: "Gift wrapping requested",
		status: order.StatusProcessing,
	},
	{
		email:    "robert.johnson@example.com",
		lines:    []line{{sku: "AUDIO-BS-001", quantity: 1}},
		shipping: "5.00",
		status:   order.StatusPending,
	},
	{
		email:    "emily.brown@example.com",
		lines:    []line{{sku: "LAPTOP-PRO-001", quantity: 1}},
		shipping: "0", notes: "Express shipping",
		status: order.StatusShipped, tracking: "TRK987654321",
	},
	{
		email:    "michael.wilson@example.com",
		lines:    []line{{sku: "AUDIO-HP-001", quantity: 1}, {sku: "AUDIO-BS-001", quantity: 1}},
		shipping: "10.00", notes: "Customer requested cancellation",
		status: order.StatusCancelled, refunded: true,
	},
}
