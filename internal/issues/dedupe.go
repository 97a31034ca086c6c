package issues

import "github.com/erraggy/docschema/internal/pathutil"

// Dedupe removes findings that repeat an earlier one with the same severity,
// code and message at the same index-normalised path. The first occurrence
// is kept, so the surviving breadcrumb points at the first offending member.
func Dedupe(list []Issue) []Issue {
	if len(list) < 2 {
		return list
	}

	type key struct {
		sev  int
		code Code
		msg  string
		path string
	}

	seen := make(map[key]struct{}, len(list))
	out := make([]Issue, 0, len(list))
	for _, is := range list {
		k := key{int(is.Severity), is.Code, is.Message, pathutil.NormalizeIndexes(is.Path)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, is)
	}
	return out
}
