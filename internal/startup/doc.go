// Package startup handles configuration loading, environment
// validation, and structured startup/shutdown logging.
package startup
