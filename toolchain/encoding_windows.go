//go:build windows

package toolchain

import "golang.org/x/sys/windows"

func activeCodePage() uint32 {
	return windows.GetACP()
}
