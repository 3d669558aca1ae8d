package document

// Handler receives the node events of a streaming document traversal.
//
// Every source emits the same small vocabulary: h1..h9, p (optional class),
// table, tr, td, img (alt, src), br, a (href) and li. Unknown elements may
// be emitted and should be treated as transparent.
type Handler interface {
	StartElement(name string, attrs map[string]string)
	EndElement(name string)
	Characters(text string)
}

// EventSource drives a Handler over a document body in document order.
type EventSource interface {
	Walk(h Handler) error
}

// Element names shared by the sources.
const (
	ElemParagraph = "p"
	ElemTable     = "table"
	ElemRow       = "tr"
	ElemCell      = "td"
	ElemImage     = "img"
	ElemBreak     = "br"
	ElemLink      = "a"
	ElemListItem  = "li"
)
