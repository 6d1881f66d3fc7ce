package platform

// Package platform contains filesystem integration glue: scanning candidate
// paths into input files, audio type detection by extension, and output
// directory helpers.
