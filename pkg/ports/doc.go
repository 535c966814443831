/*
Package ports defines the driven ports of txtree services.

# Key Interfaces

  - SnapshotStore: persists committed document files by name.
  - Locker: serializes access to one document across replicas.

RunSnapshotStoreContract can be called from adapter tests to check an
implementation against the expected behavior.
*/
package ports
