// Package config provides the engine and pipeline's tunable settings as a
// single value with named presets (Default, Development, Production,
// Testing), mirroring how the rest of this module centralizes configuration.
package config
