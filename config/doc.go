// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings from defaults, an optional config
// file and AUDENGINE_* environment variables, and configures the default
// structured logger.
package config
