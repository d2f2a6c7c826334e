package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/database/accounts"
	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/database/collections"
	"github.com/badreads/badreads/internal/database/reading"
	"github.com/badreads/badreads/internal/database/reports"
	"github.com/badreads/badreads/internal/database/social"
	"github.com/badreads/badreads/internal/services"
)

// =============================================================================
// Accounts & Sessions
// =============================================================================

var _ services.Authenticator = (*auth.Service)(nil)
var _ services.UserReader = (*accounts.Repository)(nil)
var _ auth.AccountStore = (*accounts.Repository)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.SocialGraph = (*social.Repository)(nil)
var _ services.Catalog = (*catalog.Repository)(nil)
var _ services.CatalogImporter = (*catalog.Repository)(nil)
var _ services.Collections = (*collections.Repository)(nil)
var _ services.ReadingLog = (*reading.Repository)(nil)

// =============================================================================
// Aggregation
// =============================================================================

var _ services.Aggregator = (*reports.Repository)(nil)
