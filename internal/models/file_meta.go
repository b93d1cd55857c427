package models

// FileMeta describes a stored attachment. It is produced by the file
// adapter and treated as opaque by the rest of the system.
type FileMeta struct {
	Filename     string `gorm:"size:255" json:"filename"`
	OriginalName string `gorm:"size:255" json:"original_name"`
	Path         string `gorm:"size:512" json:"path"`
	Size         int64  `json:"size"`
	Mimetype     string `gorm:"size:128" json:"mimetype"`
}

// IsZero reports whether no file has been attached.
func (f FileMeta) IsZero() bool {
	return f.Filename == "" && f.Path == ""
}
