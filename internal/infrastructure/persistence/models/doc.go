// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and AggregateModel
// - order.go: purchases, purchase_items, transaction_details
// - inventory.go: inventory_records
// - customer.go: profiles, addresses
// - notification.go: notifications
// - catalog.go: products (read-only catalog view)
package models
