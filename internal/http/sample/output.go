package sample

// GetOutput carries the raw text body; a []byte body bypasses content negotiation.
type GetOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
