package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// AbortWithMessage writes a message to the log and aborts execution. Unlike
// panic, ABORT cannot be caught by the calling context.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
