package vault

// FoldInfo is opaque collapsed-section state. The library copies it from a
// template file to a newly created note without interpreting it.
type FoldInfo []byte

// FoldManager loads and saves per-file fold state. The host UI supplies a
// real implementation; the zero default keeps no state.
type FoldManager interface {
	Load(f File) (FoldInfo, error)
	Save(f File, info FoldInfo) error
}

// NopFoldManager discards fold state.
type NopFoldManager struct{}

func (NopFoldManager) Load(File) (FoldInfo, error) { return nil, nil }
func (NopFoldManager) Save(File, FoldInfo) error   { return nil }

// Verify NopFoldManager satisfies FoldManager at compile time.
var _ FoldManager = NopFoldManager{}
