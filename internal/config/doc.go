// Package config loads, normalizes, and validates whorl's TOML
// configuration. Defaults are applied first, then the config file, then
// FPWHORL_* environment overrides (optionally seeded from a .env file
// beside the config), so a bare installation runs against the simulated
// engine with no file present.
package config
