// Package hook runs maintainer scripts at package lifecycle phases. Scripts
// are Tengo programs shipped in a package's hooks directory; the configure
// step of an install is the post-install hook.
package hook

// Phase identifies the lifecycle moment a hook runs at.
type Phase string

// Supported hook phases.
const (
	PreInstall  Phase = "pre-install"
	PostInstall Phase = "post-install"
	PreRemove   Phase = "pre-remove"
	PostRemove  Phase = "post-remove"
)

// Context carries the variables exposed to a hook script.
type Context struct {
	PackageName    string
	PackageVersion string
	PackageDir     string
	Vars           map[string]interface{}
}
