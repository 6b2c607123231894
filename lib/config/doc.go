// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the converter
// tools.
//
// Configuration is loaded from a single YAML file specified by:
//   - NWKIT_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery; when neither is
// given, the defaults apply. The config file is the single source of
// truth for tool defaults — flags override it per invocation, nothing
// overrides it silently.
package config
