// Package types defines the Service interface, the in-memory Table buffer,
// catalog descriptors, configuration, and the standard errors for kursplan.
//
// A Service owns one database connection. Callers connect, validate the
// required table list, load a table into a Table, edit it, and hand the same
// Table back to SaveChanges.
package types
