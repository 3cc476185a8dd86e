// Package common provides shared constants, types, utilities, and interfaces
// used throughout the launcher application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: application metadata, file names, preference defaults, the remote endpoint
//   - Errors: sentinel errors shared by the store, the window controller and the shell
//   - Interfaces: abstractions for notifications and logging
//   - Logger: leveled logging with file output and size-based rotation
//   - Utils: install/config directory helpers and small formatting helpers
//
// # Usage
//
//	import "github.com/yllada/lexair-launcher/common"
//
//	common.LogInfo("Opening launcher in %s mode", mode)
//
//	if errors.Is(err, common.ErrInvalidLaunchMode) {
//	    // Reject the request
//	}
package common
