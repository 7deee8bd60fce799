// Package domain contains the core domain entities and value objects for posebridge.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (sockets, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Vec3]: A position or Euler rotation triple
//   - [Pose]: Position plus Euler rotation (degrees) of one tracked source
//   - [Entity]: A tracked body part with its OSC address and source priority
//   - [Endpoint]: The resolved tracking server address
//   - [Status]: Persistent record of the last resolved server
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
