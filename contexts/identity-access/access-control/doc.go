// Package accesscontrol implements the request-authorization pipeline.
//
// Layering:
// - domain: identity resolution and access decision types
// - application: credential resolution and request authorization use-cases
// - ports: stable boundaries for token verification, rules, and ownership
// - adapters: casbin rule engine and net/http middleware stages
//
// Boundary notes:
// - The pipeline wraps every route the platform httpserver registers.
// - Stage order is fixed: authenticate first, then authorize. The
//   authorizer reads the identity the authenticator stored on the
//   request context; a missing identity degrades to anonymous.
// - Keep this module self-contained under identity-access context.
package accesscontrol
