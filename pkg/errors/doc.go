// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeResolutionFailed,
//	    "failed to resolve substitution batch",
//	    providerErr,
//	    map[string]interface{}{
//	        "provider": providerType,
//	        "cluster": clusterName,
//	    },
//	)
package errors
