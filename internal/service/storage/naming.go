package storage

import (
	"fmt"
	"strings"
)

// disambiguateName renders "<base> (<n>).<ext>" for the n-th duplicate of name.
// The extension is whatever follows the last dot. Names without an extension
// (no dot, a leading dot only, or a trailing dot) get the suffix appended.
func disambiguateName(name string, duplicates int) string {
	if duplicates <= 0 {
		return name
	}
	base, ext := splitExt(name)
	if ext == "" {
		return fmt.Sprintf("%s (%d)", base, duplicates)
	}
	return fmt.Sprintf("%s (%d).%s", base, duplicates, ext)
}

func splitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i+1:]
}
