/*
Package workspace orchestrates access to persisted documents.

A Manager loads a document from a ports.SnapshotStore, runs the requested
change in a single transaction and saves the committed result. Access to one
document is serialized in-process, and across replicas when a ports.Locker is
configured.
*/
package workspace
