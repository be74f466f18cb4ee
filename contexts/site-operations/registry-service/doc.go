// Package registryservice implements the hierarchical site registry:
// projects own worksites, worksites own zones.
//
// Layering:
// - domain: project/worksite/zone entities, invariants, errors
// - application: CRUD operations with explicit ports
// - ports: stable boundaries for persistence and actor checks
// - adapters: concrete postgres, memory, and HTTP implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The owning chain of each resource (zone -> worksite -> project) is
//   what the authorization pipeline's ownership fallback walks; keep
//   the denormalized zone project_id consistent on create.
package registryservice
