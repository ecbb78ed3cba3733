package toolchain

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

const codePageUTF8 = 65001

// DefaultEncoding returns the encoding of the platform's active code page.
// The toolchain writes localized messages in that encoding on Windows; other
// platforms use UTF-8.
func DefaultEncoding() encoding.Encoding {
	return codePageEncoding(activeCodePage())
}

func codePageEncoding(cp uint32) encoding.Encoding {
	switch cp {
	case 936:
		return simplifiedchinese.GBK
	case 932:
		return japanese.ShiftJIS
	case 949:
		return korean.EUCKR
	case 950:
		return traditionalchinese.Big5
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 866:
		return charmap.CodePage866
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1252:
		return charmap.Windows1252
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	default:
		return unicode.UTF8
	}
}

// LookupEncoding resolves an encoding by IANA name or alias ("utf-8",
// "gbk", "shift_jis", "windows-1252"). An empty name selects DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultEncoding(), nil
	case "utf8", "utf-8":
		return unicode.UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported output encoding %q", name)
	}
	return enc, nil
}
