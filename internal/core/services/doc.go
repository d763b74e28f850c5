// Package services contains the core application logic, implementing
// the driving ports in terms of the driven ports.
//
// Services are constructed with their dependencies and hold no global
// state. The ingestion service serializes writes; retrieval and
// composition are read-only and safe for concurrent use.
package services
