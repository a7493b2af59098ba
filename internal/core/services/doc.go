// Package services implements the core application logic behind the
// driving ports: ingestion, retrieval, and question answering.
//
// Services depend only on the domain package and the driven ports.
// All collaborators are injected through constructors; there is no
// package-level state beyond the verbose logger.
package services
