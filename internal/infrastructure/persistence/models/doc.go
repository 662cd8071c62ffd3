// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model here converts to and from
// its domain type with ToDomain and FromDomain.
//
// Layout:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - catalog.go: collections, products, promotions, reviews, tags, images
//   - cart.go: carts and cart items
//   - order.go: orders and order items
//   - customer.go: customers and addresses
//   - polls.go: categories, poll tags, questions, choices, votes, comments
//   - identity.go: users
//   - outbox.go: outbox entries awaiting publication
package models
