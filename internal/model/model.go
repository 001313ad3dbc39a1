package model

// Package model contains domain models/data structures.
// Pure data types shared across layers (HTTP, service, repository, storage);
// no database tags and no business logic here.

// All entity IDs are UUID strings generated by the application or by the
// uuid-ossp extension defaults in the schema.
