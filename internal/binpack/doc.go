// Package binpack implements a restricted binary pack/unpack format
// language in the style of Lua 5.3's string.pack.
//
// The dialect is constrained to the numeric model of the avatar script
// runtime, where every number is an IEEE-754 double and there is no native
// 64-bit integer type. Integer directives are therefore limited to widths
// of 1 to 4 bytes, and the alignment and native-size directives of the full
// language are rejected outright.
//
// Format directives:
//
//	<       little-endian (default)
//	>       big-endian
//	=       alias for little-endian
//	b / B   signed / unsigned 8-bit integer
//	h / H   signed / unsigned 16-bit integer
//	i[n]    signed integer, n bytes (1-4, default 4)
//	I[n]    unsigned integer, n bytes (1-4, default 4)
//	f       32-bit float
//	d       64-bit float
//	n       alias for d
//	cN      fixed string of exactly N bytes (N required)
//	z       zero-terminated string
//	s[n]    string with n-byte length prefix (1-4, default 4)
//	x       one zero padding byte
//	(space) ignored
//
// The directives !, X, l, L, j, J and T exist in the full Lua language but
// have no representation here; they fail with a descriptive error.
package binpack
