//go:build tools

package mobile

// gomobile bind resolves its runtime from the module that is being bound.
import _ "golang.org/x/mobile/bind"
