//go:build !unix

package debugger

import "os"

func stopProcess(*os.Process) error     { return ErrUnsupported }
func continueProcess(*os.Process) error { return ErrUnsupported }
