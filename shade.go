package shade

import "fmt"

// ScalingMethod selects how a decoded image file would be mapped onto the
// screen. It exists for the LoadFromFile surface, which is declared but not
// implemented; see Loader.Load.
type ScalingMethod int

const (
	ScalingCenter ScalingMethod = iota
	ScalingFill
	ScalingMax
	ScalingScale
	ScalingTile
)

func (s ScalingMethod) String() string {
	switch s {
	case ScalingCenter:
		return "center"
	case ScalingFill:
		return "fill"
	case ScalingMax:
		return "max"
	case ScalingScale:
		return "scale"
	case ScalingTile:
		return "tile"
	default:
		return fmt.Sprintf("ScalingMethod(%d)", int(s))
	}
}

type openMode int

const (
	modeMakeNew openMode = iota
	modeKeepExisting
	modeLoadFromFile
)

// OpenMethod describes how the background pixmap's initial contents are
// obtained. Construct one with MakeNew, KeepExisting or LoadFromFile.
type OpenMethod struct {
	mode    openMode
	scaling ScalingMethod
	path    string
}

// MakeNew provisions a fresh background with no attempt to preserve the
// previous image. The buffer starts zeroed (black).
func MakeNew() OpenMethod {
	return OpenMethod{mode: modeMakeNew}
}

// KeepExisting provisions a fresh background but copies the previous
// owner's image into it before that owner is evicted, so the screen never
// visibly flashes. When no previous background exists it degrades to
// MakeNew behavior.
func KeepExisting() OpenMethod {
	return OpenMethod{mode: modeKeepExisting}
}

// LoadFromFile names an image file to decode and scale onto the background.
// The codec collaborator is not implemented: loading with this method
// always fails with ErrUnsupported.
func LoadFromFile(scaling ScalingMethod, path string) OpenMethod {
	return OpenMethod{mode: modeLoadFromFile, scaling: scaling, path: path}
}

func (m OpenMethod) String() string {
	switch m.mode {
	case modeMakeNew:
		return "make-new"
	case modeKeepExisting:
		return "keep-existing"
	case modeLoadFromFile:
		return fmt.Sprintf("load-from-file(%s, %s)", m.scaling, m.path)
	default:
		return fmt.Sprintf("OpenMethod(%d)", int(m.mode))
	}
}
