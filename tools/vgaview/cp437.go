package main

// cp437 maps each byte of code page 437, the character set of the VGA text
// mode font, to the Unicode rune with the same glyph. NUL is shown as a
// space.
var cp437 = func() [256]rune {
	var table [256]rune

	table[0] = ' '
	for i, r := range []rune("☺☻♥♦♣♠•◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼") {
		table[0x01+i] = r
	}
	for b := 0x20; b < 0x7f; b++ {
		table[b] = rune(b)
	}
	table[0x7f] = '⌂'
	for i, r := range []rune("ÇüéâäàåçêëèïîìÄÅÉæÆôöòûùÿÖÜ¢£¥₧ƒáíóúñÑªº¿⌐¬½¼¡«»" +
		"░▒▓│┤╡╢╖╕╣║╗╝╜╛┐└┴┬├─┼╞╟╚╔╩╦╠═╬╧╨╤╥╙╘╒╓╫╪┘┌█▄▌▐▀" +
		"αßΓπΣσµτΦΘΩδ∞φε∩≡±≥≤⌠⌡÷≈°∙·√ⁿ²■\u00a0") {
		table[0x80+i] = r
	}

	return table
}()
