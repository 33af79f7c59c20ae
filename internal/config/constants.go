package config

const SourceFileExt = ".remap"

// DefaultBackendName selects the execution backend when none is
// requested explicitly.
const DefaultBackendName = "vm"

// ExampleInstant is the fixed clock used when running function
// examples, so clock-dependent examples stay deterministic.
const ExampleInstant = "2021-02-10T23:32:00Z"

// DefaultProtoImportPath is where protobuf descriptor files are
// resolved from when no import paths are configured.
const DefaultProtoImportPath = "."
