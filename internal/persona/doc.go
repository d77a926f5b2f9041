// ABOUTME: Package persona defines the built-in personality profiles and a registry.
// ABOUTME: Profiles can be reskinned via TOML persona packs; the type set stays closed.
package persona
