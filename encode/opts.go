package encode

type EncodeOption func(*EncState)

// Indent enables pretty printing with n spaces per nesting level. Zero,
// the default, writes everything on one line.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Declaration prefixes document output with an XML declaration.
func Declaration(v bool) EncodeOption {
	return func(es *EncState) { es.decl = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
