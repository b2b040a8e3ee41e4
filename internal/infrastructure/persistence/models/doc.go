// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - partner.go: Client models
// - catalog.go: Service, expense template and expense category models
// - trade.go: Sale and sale item models
// - finance.go: Receivable, payment record and payable models
// - fulfillment.go: Process models
// - identity.go: User models
// - audit.go: Audit log models
// - integration.go: Provider webhook models
package models
