// ABOUTME: Package config loads the pixelchat YAML configuration.
// ABOUTME: Supports ${VAR} environment expansion and duration string parsing.
package config
