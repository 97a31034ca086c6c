package pathutil

import (
	"strconv"
	"strings"
)

// JoinPath nests child under parent using dot notation. Index segments
// ("[3]") attach without a separator.
func JoinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case child[0] == '[':
		return parent + child
	}

	sb := getBuilder()
	sb.Grow(len(parent) + len(child) + 1)
	sb.WriteString(parent)
	sb.WriteByte('.')
	sb.WriteString(child)
	result := sb.String()
	putBuilder(sb)
	return result
}

// IndexPath appends a collection index segment to parent.
func IndexPath(parent string, i int) string {
	sb := getBuilder()
	sb.WriteString(parent)
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(i))
	sb.WriteByte(']')
	result := sb.String()
	putBuilder(sb)
	return result
}

// NormalizeIndexes replaces every numeric index segment with "[*]".
func NormalizeIndexes(path string) string {
	if strings.IndexByte(path, '[') < 0 {
		return path
	}

	sb := getBuilder()
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c != '[' {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(path) && path[j] >= '0' && path[j] <= '9' {
			j++
		}
		if j > i+1 && j < len(path) && path[j] == ']' {
			sb.WriteString("[*]")
			i = j
			continue
		}
		sb.WriteByte(c)
	}
	result := sb.String()
	putBuilder(sb)
	return result
}
