// Package attendanceservice owns employees and attendance logging.
//
// Layering follows the repository convention: domain entities and
// sentinel errors under domain/, use-cases under application/, explicit
// ports under ports/, and postgres/memory/http adapters under
// adapters/. RecordAttendance publishes an event envelope to the bus;
// the worker-side indexer consumes it into a searchable log store.
package attendanceservice
