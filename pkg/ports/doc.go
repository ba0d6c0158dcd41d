/*
Package ports defines the driven ports (interfaces) that feed blueprint
definitions into lattice.

These interfaces decouple the model from storage, so the same compiler works
over a directory of documents, Redis, SQLite or an in-memory map.

# Key Interfaces

  - BlueprintLoader: read-only access to raw blueprint documents (e.g., from Loam or Memory).
  - BlueprintStore: read/write persistence of blueprint definitions (e.g., Redis or SQLite).
*/
package ports
