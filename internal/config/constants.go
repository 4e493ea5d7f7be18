package config

// Version of the quill toolchain.
const Version = "0.3.0"

// InterchangeFileExt is the extension of lowered IR documents.
const InterchangeFileExt = ".qir.yaml"

// InterchangeFileExtensions are all recognized IR document extensions
var InterchangeFileExtensions = []string{".qir.yaml", ".qir.yml", ".yaml", ".yml"}

// Config file names, in lookup order.
var ConfigFileNames = []string{"quill.yaml", "quill.yml", "quill.toml"}

// Execution defaults
const (
	DefaultMaxOperations     = 1_000_000
	DefaultMaxRecursionDepth = 1_000
	DefaultEntryFunction     = "main"
	DefaultWorkers           = 4
)

// Primitive type names
const (
	IntTypeName    = "int"
	I32TypeName    = "i32"
	I64TypeName    = "i64"
	FloatTypeName  = "float"
	F32TypeName    = "f32"
	F64TypeName    = "f64"
	StringTypeName = "string"
	BoolTypeName   = "bool"
	VoidTypeName   = "void"
)

// Log levels accepted by the CLI and the config file
const (
	LogLevelSilent  = "silent"
	LogLevelError   = "error"
	LogLevelWarn    = "warn"
	LogLevelVerbose = "verbose"
)

var LogLevels = []string{LogLevelSilent, LogLevelError, LogLevelWarn, LogLevelVerbose}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
