// Package pathutil builds the breadcrumb paths attached to validation issues
// and sanitizes output file paths.
//
// Breadcrumbs use dot notation for object members and brackets for
// collection members:
//
//	pathutil.JoinPath("value", "[3]")             // "value[3]"
//	pathutil.JoinPath(pathutil.IndexPath("value", 3), "address") // "value[3].address"
//
// [NormalizeIndexes] rewrites every index to "[*]" so that findings reported
// on different members of one collection can be compared and collapsed.
//
// [SanitizeOutputPath] validates and cleans output file paths. It resolves
// ".." components and rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err
//	}
package pathutil
