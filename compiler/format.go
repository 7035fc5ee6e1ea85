package compiler

import "fmt"

// formatByte renders a BYTE-width literal the way the assembler expects:
// three uppercase hex digits followed by H, e.g. 005H, 0FFH.
func formatByte(v int) string {
	return fmt.Sprintf("%03XH", v&0xFF)
}

// formatWord renders an ADDRESS-width literal: five uppercase hex digits
// followed by H, e.g. 00010H, 01234H.
func formatWord(v int) string {
	return fmt.Sprintf("%05XH", v&0xFFFF)
}
