// Package accountservice implements user accounts and authentication.
//
// Layering:
// - domain: account entity, invariants, errors
// - application: registration, login, token verification, role and
//   access administration using explicit ports
// - ports: stable boundaries for persistence/hashing/tokens/policy
// - adapters: concrete postgres, memory, jwt, bcrypt, and HTTP
//   implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Access grants mutate both the association rows and the policy rule
//   table through the PolicyWriter port; the concrete rule engine is
//   injected by bootstrap.
// - Keep this module self-contained under identity-access context.
package accountservice
