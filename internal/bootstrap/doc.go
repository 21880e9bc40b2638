// Package bootstrap loads the strict two-key configuration that selects
// which auto-configuration modules are enabled or disabled before the
// application container exists. Unlike general environment loading, which
// skips malformed assets, every malformation here is a hard error with a
// corrective example: silently ignoring an enable/disable directive would
// start the application with the wrong feature set.
package bootstrap
