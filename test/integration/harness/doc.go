// Package harness provides utilities for integration testing the ferry CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - FERRY_HOME: Isolated per test (temp directory)
//   - FERRY_DEBUG: Disabled to reduce noise
package harness
