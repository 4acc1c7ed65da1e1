// Package models defines the core domain models for the treasury ledger.
//
// # Ledger Models
//
// The following models make up a tenant's books:
//   - Transaction: a single income or expense entry
//   - Sheet: a manually entered monthly summary (planilha), independent of transactions
//   - Report: the derived view computed by the ledger pipeline (never persisted)
//
// # Account Models
//
//   - User: an account record, either in the system directory or in a tenant's member list
//   - Session: the reduced user record kept as the current-session marker
//   - Profile, Stats, Achievement: per-user profile and activity progress
//
// # Design Principles
//
// 1. **Amounts are never signed**: the contribution of a transaction to a balance comes from its Kind
// 2. **Dates are calendar days**: Date carries no time of day and serialises as YYYY-MM-DD
// 3. **Tenant isolation**: every model is stored under the owning user's id, never a global collection
// 4. **Avoid circular references**: relationships use ID strings, never pointers
package models
