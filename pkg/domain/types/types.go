package types

// Version is overwritten at build time via -ldflags.
var Version = "dev"

// ServiceName is used for health reporting and log identification.
const ServiceName = "koboimg"
