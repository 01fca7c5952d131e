// Public domain.

package obsfile

import (
	"strconv"
	"strings"
)

// base-62 digits of packed designations
func packedDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36, true
	}
	return 0, false
}

// Unpack converts an MPC packed number or provisional designation to the
// unpacked form, for example "00433" to "433", "A0001" to "100001", and
// "K25A01B" to "2025 AB1".  Anything else is returned unchanged.
func Unpack(desig string) string {
	desig = strings.TrimSpace(desig)
	switch len(desig) {
	case 5:
		if u, ok := unpackNumber(desig); ok {
			return u
		}
	case 7:
		if u, ok := unpackProvisional(desig); ok {
			return u
		}
	}
	return desig
}

func unpackNumber(p string) (string, bool) {
	hi, ok := packedDigit(p[0])
	if !ok {
		return "", false
	}
	lo, err := strconv.Atoi(p[1:])
	if err != nil || lo < 0 {
		return "", false
	}
	return strconv.Itoa(hi*10000 + lo), true
}

func unpackProvisional(p string) (string, bool) {
	var century int
	switch p[0] {
	case 'I':
		century = 18
	case 'J':
		century = 19
	case 'K':
		century = 20
	default:
		return "", false
	}
	yy, err := strconv.Atoi(p[1:3])
	if err != nil {
		return "", false
	}
	half, order := p[3], p[6]
	if half < 'A' || half > 'Y' || half == 'I' || order < 'A' || order > 'Z' || order == 'I' {
		return "", false
	}
	c0, ok := packedDigit(p[4])
	if !ok || p[5] < '0' || p[5] > '9' {
		return "", false
	}
	cycle := c0*10 + int(p[5]-'0')
	u := strconv.Itoa(century*100+yy) + " " + string(half) + string(order)
	if cycle > 0 {
		u += strconv.Itoa(cycle)
	}
	return u, true
}
