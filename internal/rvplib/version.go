package rvplib

// Overridden at build time with -ldflags "-X .../internal/rvplib.Version=..."
var Version = "0.0.0-dev"
