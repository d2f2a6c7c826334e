// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Accounts & Sessions
//
//   - Authenticator: account creation, login, logout (internal/services/interfaces.go)
//   - UserReader: profile lookup (internal/services/interfaces.go)
//   - AccountStore: persistence behind auth.Service (internal/auth/service.go)
//
// ## Data Access Interfaces
//
//   - SocialGraph: follow edges
//   - Catalog / CatalogImporter: book lookup, search and bulk import
//   - Collections: owned book sets
//   - ReadingLog: ratings and reading sessions
//
// ## Aggregation
//
//   - Aggregator: top recent books, new releases, recommendations
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reading challenges):
//
//  1. Create sub-package: internal/database/challenges/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the interface the HTTP layer needs in internal/services
//
//  4. Add compile-time check:
//
//     var _ services.Challenges = (*challenges.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
