// Package printing builds printable documents: page splitting and the
// delivery note view model. Rendering to PDF lives in infrastructure.
package printing
