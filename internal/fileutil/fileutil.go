// Package fileutil holds the permission modes used for files docschema writes.
package fileutil

import "os"

// ReadableByAll is the file permission mode for exported schema documents,
// which other tools and users read.
const ReadableByAll os.FileMode = 0o644

// OutputDir is the permission mode for directories created for exports.
const OutputDir os.FileMode = 0o750
