// Package conv formats integers without fmt or strconv, for TinyGo
// builds where those pull in too much.
package conv

const hexDigits = "0123456789ABCDEF"

// AppendUint appends the base-10 form of n.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// Utoa returns the base-10 form of n.
func Utoa(n uint32) string { return string(AppendUint(nil, uint64(n))) }

// AppendHex16 appends v as "0x" and four uppercase hex digits.
func AppendHex16(dst []byte, v uint16) []byte {
	dst = append(dst, '0', 'x')
	for shift := 12; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[(v>>uint(shift))&0xF])
	}
	return dst
}
