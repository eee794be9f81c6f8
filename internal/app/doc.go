// Package app contains the manifest inspection logic. It loads HCL
// binding manifests into a registry and reports the resulting view,
// decoupled from any specific entrypoint like a CLI.
package app
