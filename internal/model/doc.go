package model

// Package model defines domain data structures used across the engine: input
// files, target profiles, conversion tasks, outputs, and status enums.
// Structures are designed for single-owner mutation and explicit state
// transitions.
