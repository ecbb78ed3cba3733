//go:build !windows

package toolchain

func activeCodePage() uint32 {
	return codePageUTF8
}
