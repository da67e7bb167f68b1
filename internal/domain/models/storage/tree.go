package storage

// TreeDescription is a folder to be created together with its nested files
// and folders. It carries no store identities.
type TreeDescription struct {
	Name    string            `json:"name" yaml:"name"`
	Files   []FileDescription `json:"files,omitempty" yaml:"files,omitempty"`
	Folders []TreeDescription `json:"folders,omitempty" yaml:"folders,omitempty"`
}

// Depth returns the number of folder levels, counting this one
func (t *TreeDescription) Depth() int {
	deepest := 0
	for i := range t.Folders {
		if d := t.Folders[i].Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Count returns the number of folders and files in the description
func (t *TreeDescription) Count() (folders, files int) {
	folders, files = 1, len(t.Files)
	for i := range t.Folders {
		fo, fi := t.Folders[i].Count()
		folders += fo
		files += fi
	}
	return folders, files
}
