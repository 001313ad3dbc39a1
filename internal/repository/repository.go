package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Methods that touch several tables at once (document + tags + versions)
// run inside a single database transaction in the implementation.
